package app

import "planboard/internal/core"

// CreateScenarioRequest carries the fields for a new scenario. CampaignID is
// the base campaign the scenario overlays; when empty the current campaign
// is used.
type CreateScenarioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CampaignID  string `json:"campaign_id"`
}

// ScenarioComputeRequest carries transient knobs for a scenario forecast
// that are not persisted with the scenario itself.
type ScenarioComputeRequest struct {
	ModeOverride  core.DistributionMode `json:"mode_override"`
	CustomWeights core.MonthWeights     `json:"custom_weights"`
}

package web

import (
	"net/http"

	"planboard/internal/app"
	"planboard/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listScenarios(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListScenarios(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) createScenario(w http.ResponseWriter, r *http.Request) {
	var req app.CreateScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateScenario(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res)
}

func (h *Handler) updateScenario(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.UpdateScenario(r.Context(), chi.URLParam(r, "id"), body.Name, body.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) deleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) duplicateScenario(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.DuplicateScenario(r.Context(), chi.URLParam(r, "id"), body.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res)
}

// scenarioForecast is a POST because the caller may pass transient compute
// knobs (mode override, custom weights) that are not persisted.
func (h *Handler) scenarioForecast(w http.ResponseWriter, r *http.Request) {
	var req app.ScenarioComputeRequest
	if r.ContentLength > 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	res, err := h.svc.GetScenarioForecast(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) putProductOverrides(w http.ResponseWriter, r *http.Request) {
	var overrides []core.ProductOverride
	if !decodeJSON(w, r, &overrides) {
		return
	}
	if err := h.svc.SetScenarioProductOverrides(r.Context(), chi.URLParam(r, "id"), overrides); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putOpexOverrides(w http.ResponseWriter, r *http.Request) {
	var overrides []core.OpexOverride
	if !decodeJSON(w, r, &overrides) {
		return
	}
	if err := h.svc.SetScenarioOpexOverrides(r.Context(), chi.URLParam(r, "id"), overrides); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putFxOverrides(w http.ResponseWriter, r *http.Request) {
	var overrides []core.FxOverride
	if !decodeJSON(w, r, &overrides) {
		return
	}
	if err := h.svc.SetScenarioFxOverrides(r.Context(), chi.URLParam(r, "id"), overrides); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

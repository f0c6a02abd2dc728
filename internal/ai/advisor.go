package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"planboard/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AdvisorService turns a natural-language what-if request into a structured
// scenario draft. The draft is a proposal only: nothing is persisted until a
// human confirms it.
type AdvisorService interface {
	DraftScenario(ctx context.Context, request string, productCatalog string, opexCatalog string) (*core.ScenarioDraft, error)
}

type Advisor struct {
	client *openai.Client
}

func NewAdvisor(apiKey string) *Advisor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Advisor{client: &client}
}

func (a *Advisor) DraftScenario(ctx context.Context, request string, productCatalog string, opexCatalog string) (*core.ScenarioDraft, error) {
	prompt := fmt.Sprintf(`You are a business planning analyst.
Your goal is to interpret a what-if request described in natural language and propose a scenario overlay for a sales campaign.
You MUST use the provided product and opex catalogs.
Rules:
1. Reference ONLY product ids and opex item ids from the lists below.
2. Include a change entry only for items the request actually changes; leave every inherited field as an empty string.
3. Amounts must be exact decimal strings (e.g. "1800.00"). Discount and return rate are percentages from 0 to 100.
4. Provide a confidence score (0.0-1.0).
5. Explain your reasoning.

Products:
%s

Opex items:
%s

Request: %s`, productCatalog, opexCatalog, request)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "scenario_draft",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed what-if scenario overlay for a sales campaign"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var draft core.ScenarioDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("draft validation failed: %w", err)
	}

	return &draft, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ScenarioDraft
	return reflector.Reflect(v)
}

package orgintel

import (
	"context"
	"errors"

	"growth-intel/internal/jsonextract"
	"growth-intel/internal/llm"
	"growth-intel/internal/shared/metrics"
	"growth-intel/internal/shared/telemetry"
)

const (
	analysisTemperature = 0.3
	routingTemperature  = 0.4

	// PartialConfidence is reported when the model answers without a confidenceScore.
	PartialConfidence = 0.5

	fallbackHierarchyLevels   = 3
	fallbackConfidence        = 0.3
	fallbackRoutingStrategy   = "Unable to generate routing recommendation"
	fallbackRoutingConfidence = 0.1
	fallbackRoutingSuccess    = 0.2
)

// Engine turns contact lists into org models and routing recommendations.
// Both operations always return a renderable value; failures degrade to
// low-confidence fallbacks instead of errors.
type Engine struct {
	Client llm.Client
	Model  string
	Ranker Ranker
}

// NewEngine constructs an Engine with the default heuristic ranker.
func NewEngine(client llm.Client, model string) *Engine {
	return &Engine{Client: client, Model: model, Ranker: HeuristicRanker{}}
}

// FallbackModel is returned when analysis fails for any reason.
func FallbackModel() OrganizationModel {
	return OrganizationModel{
		HierarchyLevels: fallbackHierarchyLevels,
		Departments:     []Department{},
		DecisionMakers:  []ContactRef{},
		StructureData:   StructureData{},
		ConfidenceScore: fallbackConfidence,
	}
}

// FallbackRouting is returned when routing fails outright.
func FallbackRouting() RoutingRecommendation {
	return RoutingRecommendation{
		Path:                []RoutingStep{},
		Strategy:            fallbackRoutingStrategy,
		ConfidenceScore:     fallbackRoutingConfidence,
		ExpectedSuccessRate: fallbackRoutingSuccess,
	}
}

type modelPayload struct {
	OrganizationModel
	ConfidenceScore *float64 `json:"confidenceScore"`
}

// AnalyzeOrganization asks the model for the structure behind contacts.
func (e *Engine) AnalyzeOrganization(ctx context.Context, contacts []ContactRecord) OrganizationModel {
	content, err := e.complete(ctx, systemPromptAnalysis, buildAnalysisPrompt(contacts), analysisTemperature)
	if err != nil {
		return e.analysisFallback(len(contacts), err)
	}

	payload, err := jsonextract.Decode[modelPayload](content).Unwrap()
	if err != nil {
		return e.analysisFallback(len(contacts), err)
	}

	model := payload.OrganizationModel
	if payload.ConfidenceScore != nil {
		model.ConfidenceScore = *payload.ConfidenceScore
	} else {
		model.ConfidenceScore = PartialConfidence
	}
	if model.Departments == nil {
		model.Departments = []Department{}
	}
	if model.DecisionMakers == nil {
		model.DecisionMakers = []ContactRef{}
	}
	if model.StructureData == nil {
		model.StructureData = StructureData{}
	}
	metrics.IncOrgAnalysis(false)
	return model
}

func (e *Engine) analysisFallback(contacts int, err error) OrganizationModel {
	metrics.IncOrgAnalysis(true)
	telemetry.Warn("org.analysis.fallback", map[string]any{
		"contacts": contacts,
		"error":    err,
	})
	return FallbackModel()
}

// GenerateRouting recommends who to send emailContent to. A model reply with
// no JSON object degrades to the ranker's heuristic path; any other failure
// returns FallbackRouting.
func (e *Engine) GenerateRouting(ctx context.Context, emailContent string, contacts []ContactRecord, model OrganizationModel, goal string) RoutingRecommendation {
	content, err := e.complete(ctx, systemPromptRouting, buildRoutingPrompt(emailContent, contacts, model, goal), routingTemperature)
	if err != nil {
		return e.routingFallback("hard", err, contacts)
	}

	rec, err := jsonextract.Decode[RoutingRecommendation](content).Unwrap()
	if err != nil {
		if errors.Is(err, jsonextract.ErrNoJSONObject) {
			return e.routingFallback("soft", err, contacts)
		}
		return e.routingFallback("hard", err, contacts)
	}

	rec.Path = densify(rec.Path, len(contacts))
	metrics.IncRouting("")
	return rec
}

func (e *Engine) routingFallback(tier string, err error, contacts []ContactRecord) RoutingRecommendation {
	metrics.IncRouting(tier)
	telemetry.Warn("org.routing.fallback", map[string]any{
		"tier":     tier,
		"contacts": len(contacts),
		"error":    err,
	})
	if tier == "soft" {
		ranker := e.Ranker
		if ranker == nil {
			ranker = HeuristicRanker{}
		}
		return ranker.Rank(contacts)
	}
	return FallbackRouting()
}

// densify keeps model output order, caps the path at limit entries and
// renumbers orders 1..n.
func densify(path []RoutingStep, limit int) []RoutingStep {
	if len(path) > limit {
		path = path[:limit]
	}
	out := make([]RoutingStep, len(path))
	for i, step := range path {
		step.Order = i + 1
		out[i] = step
	}
	return out
}

func (e *Engine) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if e.Client == nil {
		return "", llm.ErrNotConfigured
	}
	resp, err := e.Client.Complete(ctx, llm.Request{
		Model: e.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: llm.Temperature(temperature),
	})
	if err != nil {
		return "", err
	}
	return resp.Content()
}

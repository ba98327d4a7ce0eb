package styleprofile

import (
	"context"
	"fmt"
	"strings"

	"growth-intel/internal/jsonextract"
	"growth-intel/internal/llm"
)

const (
	analysisTemperature = 0.3

	// DefaultTargetType is used when a mirror request names no output type.
	DefaultTargetType = "email"
)

// Engine analyzes writing samples and rewrites text in a profile's voice.
// Unlike org analysis, every failure is returned to the caller so a corrupt
// analysis is never saved.
type Engine struct {
	Client llm.Client
	Model  string
}

// NewEngine constructs an Engine.
func NewEngine(client llm.Client, model string) *Engine {
	return &Engine{Client: client, Model: model}
}

// AnalyzeSample extracts the style of text. text must be non-empty.
func (e *Engine) AnalyzeSample(ctx context.Context, text string) (StyleAnalysis, error) {
	resp, err := e.complete(ctx, llm.Request{
		Model: e.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPromptAnalysis},
			{Role: llm.RoleUser, Content: buildAnalysisPrompt(text)},
		},
		Temperature: llm.Temperature(analysisTemperature),
	})
	if err != nil {
		return StyleAnalysis{}, fmt.Errorf("analyze style: %w", err)
	}
	analysis, err := jsonextract.Decode[StyleAnalysis](resp).Unwrap()
	if err != nil {
		return StyleAnalysis{}, fmt.Errorf("analyze style: %w", err)
	}
	return analysis, nil
}

// MirrorStyle rewrites original to match profile and returns the trimmed reply.
func (e *Engine) MirrorStyle(ctx context.Context, original string, profile StyleProfile, targetType string) (string, error) {
	if strings.TrimSpace(targetType) == "" {
		targetType = DefaultTargetType
	}
	resp, err := e.complete(ctx, llm.Request{
		Model: e.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPromptMirror},
			{Role: llm.RoleUser, Content: buildMirrorPrompt(original, profile, targetType)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("mirror style: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

func (e *Engine) complete(ctx context.Context, req llm.Request) (string, error) {
	if e.Client == nil {
		return "", llm.ErrNotConfigured
	}
	resp, err := e.Client.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content()
}

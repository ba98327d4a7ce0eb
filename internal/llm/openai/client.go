package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"growth-intel/internal/llm"
	"growth-intel/internal/shared/metrics"
	"growth-intel/internal/shared/telemetry"
)

// Chat-completions endpoints for the supported OpenAI-compatible providers.
const (
	DeepSeekURL = "https://api.deepseek.com/v1/chat/completions"
	OpenAIURL   = "https://api.openai.com/v1/chat/completions"
)

const maxErrorBody = 512

// Client implements llm.Client against an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewClient constructs a completion client. timeout <= 0 means no client-side deadline.
func NewClient(apiKey, url string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.TrimSpace(url) == "" {
		url = DeepSeekURL
	}
	return &Client{
		apiKey: apiKey,
		url:    url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one chat-completions request. Non-2xx responses become *llm.StatusError.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return llm.Response{}, fmt.Errorf("completion model is required")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return llm.Response{}, fmt.Errorf("completion request encode: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Response{}, fmt.Errorf("completion request timeout: %w", err)
		}
		return llm.Response{}, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, fmt.Errorf("completion response read: %w", err)
	}
	elapsed := time.Since(start)
	metrics.ObserveCompletionDurationMs(float64(elapsed.Microseconds()) / 1000.0)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncCompletionFailed()
		return llm.Response{}, &llm.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       errorDetail(body),
		}
	}

	var parsed llm.Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.IncCompletionFailed()
		return llm.Response{}, fmt.Errorf("completion response parse: %w", err)
	}
	logUsage(req.Model, elapsed, parsed.Usage)
	return parsed, nil
}

func errorDetail(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		if env.Error.Type != "" {
			return fmt.Sprintf("%s (%s)", env.Error.Message, env.Error.Type)
		}
		return env.Error.Message
	}
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > maxErrorBody {
		trimmed = trimmed[:maxErrorBody]
	}
	return trimmed
}

func logUsage(model string, elapsed time.Duration, usage *llm.Usage) {
	fields := map[string]any{
		"model":       model,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["completion_tokens"] = usage.CompletionTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Info("llm.completion", fields)
}

var _ llm.Client = (*Client)(nil)

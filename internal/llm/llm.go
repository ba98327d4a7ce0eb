package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message roles accepted by the completion endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client abstracts a chat-completion provider. Implementations make exactly one
// attempt per call; retries belong in a wrapping layer such as WithRetry.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the provider-neutral completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Choice is one completion alternative.
type Choice struct {
	Message Message `json:"message"`
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the decoded completion body. Only the first choice is consumed.
type Response struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Content returns choices[0].message.content, or ErrEmptyCompletion when it is missing or blank.
func (r Response) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := r.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// Temperature returns a pointer suitable for Request.Temperature.
func Temperature(v float64) *float64 {
	return &v
}

var (
	// ErrEmptyCompletion is returned when the provider responds without usable content.
	ErrEmptyCompletion = errors.New("completion response missing content")
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("completion provider not configured")
)

// StatusError is returned for non-2xx responses from the completion endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("completion http status %d: %s: %s", e.StatusCode, e.Status, e.Body)
	}
	return fmt.Sprintf("completion http status %d: %s", e.StatusCode, e.Status)
}

// Placeholder is used when no provider is configured.
type Placeholder struct{}

// Complete returns ErrNotConfigured.
func (Placeholder) Complete(ctx context.Context, req Request) (Response, error) {
	_ = ctx
	_ = req
	return Response{}, ErrNotConfigured
}

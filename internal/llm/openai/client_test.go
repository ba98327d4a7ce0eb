package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"growth-intel/internal/llm"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  ", "", 0); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestCompleteSendsRequestAndDecodesChoices(t *testing.T) {
	var mu sync.Mutex
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotBody = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","choices":[{"message":{"role":"assistant","content":"hello"}}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Complete(context.Background(), llm.Request{
		Model:       "deepseek-chat",
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		Temperature: llm.Temperature(0.3),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	content, err := resp.Content()
	if err != nil || content != "hello" {
		t.Fatalf("unexpected content %q err=%v", content, err)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 4 {
		t.Fatalf("expected usage to decode, got %+v", resp.Usage)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["model"] != "deepseek-chat" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", gotBody["temperature"])
	}
	if _, ok := gotBody["max_tokens"]; ok {
		t.Fatalf("expected max_tokens to be omitted when zero")
	}
}

func TestCompleteOmitsTemperatureWhenUnset(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	}))
	defer server.Close()

	client, _ := NewClient("k", server.URL, 0)
	if _, err := client.Complete(context.Background(), llm.Request{Model: "m"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok := gotBody["temperature"]; ok {
		t.Fatalf("expected temperature to be omitted")
	}
}

func TestCompleteNonSuccessReturnsStatusError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	client, _ := NewClient("k", server.URL, 0)
	_, err := client.Complete(context.Background(), llm.Request{Model: "m"})
	if err == nil {
		t.Fatalf("expected error for 503")
	}
	var statusErr *llm.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *llm.StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status code %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Status, "Service Unavailable") {
		t.Fatalf("expected status text, got %q", statusErr.Status)
	}
	if !strings.Contains(statusErr.Body, "overloaded") {
		t.Fatalf("expected error detail, got %q", statusErr.Body)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestCompleteInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, _ := NewClient("k", server.URL, 0)
	if _, err := client.Complete(context.Background(), llm.Request{Model: "m"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCompleteNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, _ := NewClient("k", url, 0)
	if _, err := client.Complete(context.Background(), llm.Request{Model: "m"}); err == nil {
		t.Fatalf("expected transport error")
	}
}

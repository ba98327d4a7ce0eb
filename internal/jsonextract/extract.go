// Package jsonextract pulls a JSON object out of free-form model output.
//
// The match is deliberately naive: the span runs from the first '{' to the last
// '}' in the text, with no bracket balancing. Prose containing unrelated braces
// around the object will corrupt the span and fail to parse.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONObject means the text has no '{' ... '}' span.
	ErrNoJSONObject = errors.New("no json object found")
	// ErrInvalidJSON means a span was found but did not parse.
	ErrInvalidJSON = errors.New("invalid json object")
)

// ExtractionError carries the failing span. It unwraps to ErrNoJSONObject or ErrInvalidJSON.
type ExtractionError struct {
	Kind      error
	Candidate string
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("json extraction: %v: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("json extraction: %v", e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Kind }

// Span returns the substring from the first '{' to the last '}' inclusive.
func Span(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Extract returns the raw JSON object embedded in text.
func Extract(text string) (json.RawMessage, error) {
	candidate, ok := Span(text)
	if !ok {
		return nil, &ExtractionError{Kind: ErrNoJSONObject}
	}
	if !json.Valid([]byte(candidate)) {
		var probe any
		cause := json.Unmarshal([]byte(candidate), &probe)
		return nil, &ExtractionError{Kind: ErrInvalidJSON, Candidate: candidate, Cause: cause}
	}
	return json.RawMessage(candidate), nil
}

// Result is the outcome of decoding model output into T: either Value or Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok reports whether decoding succeeded.
func (r Result[T]) Ok() bool { return r.Err == nil }

// Unwrap returns the value and error as a pair.
func (r Result[T]) Unwrap() (T, error) { return r.Value, r.Err }

// Decode extracts the embedded object from text and unmarshals it into T.
// Type mismatches are reported as ErrInvalidJSON extraction errors.
func Decode[T any](text string) Result[T] {
	var zero T
	raw, err := Extract(text)
	if err != nil {
		return Result[T]{Value: zero, Err: err}
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result[T]{Value: zero, Err: &ExtractionError{Kind: ErrInvalidJSON, Candidate: string(raw), Cause: err}}
	}
	return Result[T]{Value: out}
}

package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"growth-intel/internal/shared/telemetry"
)

// DefaultRetryBaseDelay is the first backoff step used by WithRetry.
const DefaultRetryBaseDelay = 300 * time.Millisecond

type retryingClient struct {
	base       Client
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry wraps base with bounded exponential backoff on transient failures.
// maxRetries <= 0 returns base unchanged.
func WithRetry(base Client, maxRetries int, baseDelay time.Duration) Client {
	if base == nil || maxRetries <= 0 {
		return base
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}
	return retryingClient{base: base, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r retryingClient) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := r.base.Complete(ctx, req)
	delay := r.baseDelay
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if err == nil || !ShouldRetry(err) {
			return resp, err
		}
		telemetry.Warn("llm.retry", map[string]any{
			"attempt": attempt,
			"model":   req.Model,
			"error":   err,
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
		delay *= 2
		resp, err = r.base.Complete(ctx, req)
	}
	return resp, err
}

// ShouldRetry reports whether err looks transient: timeouts, 429/5xx, or dropped connections.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "eof")
}

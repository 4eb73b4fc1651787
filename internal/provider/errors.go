package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/HackrsValv/design-critic/internal/critique"
)

// maxUpstreamMessage bounds how much provider error text is echoed back to
// the caller.
const maxUpstreamMessage = 300

// NormalizeError maps an SDK error onto the canonical provider failure,
// carrying the provider name, the upstream HTTP status when it can be
// recognized, and a bounded message. Context cancellation passes through
// untouched so callers can distinguish their own timeouts. The submitted API
// key is never part of SDK error text and is never added here.
func NormalizeError(p critique.Provider, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return critique.ProviderFailure(p, 0, "request canceled or timed out")
	}

	msg := err.Error()
	if len(msg) > maxUpstreamMessage {
		msg = msg[:maxUpstreamMessage]
	}
	return critique.ProviderFailure(p, statusFromError(msg), msg)
}

// statusFromError recognizes the upstream HTTP status from SDK error text.
// The SDKs embed the status in their messages rather than exposing it
// uniformly, so this is a substring match over the usual spellings.
func statusFromError(msg string) int {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "incorrect api key") ||
		strings.Contains(lower, "authentication"):
		return 401
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "permission"):
		return 403
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "too many requests") || strings.Contains(lower, "quota"):
		return 429
	case strings.Contains(lower, "503") || strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "overloaded"):
		return 503
	case strings.Contains(lower, "500") || strings.Contains(lower, "internal server error"):
		return 500
	}
	return 0
}

package critique

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for HTTP mapping and logging. Every component
// returns an *Error with one of these kinds; the server is the single place
// that translates kinds into status codes.
type Kind string

const (
	// KindValidation marks a malformed or contradictory request.
	KindValidation Kind = "validation_error"

	// KindRender marks a failure turning HTML into a screenshot.
	KindRender Kind = "render_error"

	// KindFetch marks a failure fetching a remote image.
	KindFetch Kind = "fetch_error"

	// KindProvider marks an upstream AI provider rejection or error.
	KindProvider Kind = "provider_error"

	// KindParse marks a provider response without a usable critique document.
	KindParse Kind = "parse_error"

	// KindInternal marks an unclassified internal failure.
	KindInternal Kind = "internal_error"
)

// Error is the typed failure shared across the service. Message must never
// contain a submitted API key.
type Error struct {
	Kind    Kind
	Message string

	// Provider and StatusCode are set for KindProvider failures only.
	Provider Provider
	// StatusCode is the upstream HTTP status, 0 when unknown.
	StatusCode int

	err error
}

func (e *Error) Error() string {
	if e.Kind == KindProvider && e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// KindOf extracts the Kind from err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// Validationf builds a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Renderf builds a KindRender error wrapping cause (which may be nil).
func Renderf(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindRender, Message: fmt.Sprintf(format, args...), err: cause}
}

// Fetchf builds a KindFetch error. status is the upstream HTTP status when
// the fetch got far enough to receive one.
func Fetchf(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindFetch, Message: fmt.Sprintf(format, args...), err: cause}
}

// ProviderFailure builds a KindProvider error carrying the provider name and
// the upstream HTTP status. The message comes from the provider SDK and never
// includes the caller's key.
func ProviderFailure(p Provider, statusCode int, message string) *Error {
	return &Error{Kind: KindProvider, Provider: p, StatusCode: statusCode, Message: message}
}

// Parsef builds a KindParse error.
func Parsef(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

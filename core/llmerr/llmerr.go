// Package llmerr defines the closed error taxonomy for provider failures and
// the mapper that translates raw transport/SDK errors into it.
//
// Every error that originates from a provider call must be representable as
// exactly one taxonomy [Kind] before it leaves the adapter layer. Retryability
// is a function of the kind alone, never of caller context, which lets the
// retry driver make its decision without inspecting provider internals.
package llmerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the nine closed taxonomy kinds.
type Kind string

const (
	// KindProvider is the generic connectivity/unknown failure and the
	// default fallback for anything the mapper does not recognize.
	KindProvider Kind = "provider_error"
	// KindTimeout covers transport-level connect and overall timeouts.
	KindTimeout Kind = "timeout_error"
	// KindServiceUnavailable covers HTTP 503 responses.
	KindServiceUnavailable Kind = "service_unavailable_error"
	// KindStreaming covers failures after the stream has been opened.
	KindStreaming Kind = "streaming_error"
	// KindRateLimit covers HTTP 429 responses; carries a retry-after hint.
	KindRateLimit Kind = "rate_limit_error"
	// KindAuthentication covers credential failures (401/403).
	KindAuthentication Kind = "authentication_error"
	// KindInvalidRequest covers bad request parameters (400).
	KindInvalidRequest Kind = "invalid_request_error"
	// KindModelNotFound covers unknown model identifiers (404).
	KindModelNotFound Kind = "model_not_found_error"
	// KindContentFilter covers provider-side safety blocks.
	KindContentFilter Kind = "content_filter_error"
)

// Default retry-after hints, in seconds, applied when the provider response
// does not carry an explicit value.
const (
	DefaultRateLimitRetryAfter          = 60
	DefaultServiceUnavailableRetryAfter = 30
)

// retryableByKind is the single source of truth for retry eligibility.
var retryableByKind = map[Kind]bool{
	KindProvider:           true,
	KindTimeout:            true,
	KindServiceUnavailable: true,
	KindStreaming:          true,
	KindRateLimit:          true,
	KindAuthentication:     false,
	KindInvalidRequest:     false,
	KindModelNotFound:      false,
	KindContentFilter:      false,
}

// userMessageByKind holds the safe, non-sensitive message the boundary layer
// renders to end callers. Internal messages and stack traces never leave the
// process through these strings.
var userMessageByKind = map[Kind]string{
	KindProvider:           "The AI service encountered an error. Please try again.",
	KindTimeout:            "The AI service took too long to respond. Please try again.",
	KindServiceUnavailable: "The AI service is temporarily unavailable. Please try again shortly.",
	KindStreaming:          "The response stream was interrupted. Please try again.",
	KindRateLimit:          "Too many requests to the AI service. Please wait a moment and try again.",
	KindAuthentication:     "The AI service rejected the configured credentials.",
	KindInvalidRequest:     "The request was rejected by the AI service.",
	KindModelNotFound:      "The requested model is not available.",
	KindContentFilter:      "The response was blocked by the AI service's content filter.",
}

// Error is a taxonomy instance. It is immutable after construction: the
// mapper passes existing instances through unchanged and the retry driver
// never mutates them.
type Error struct {
	Kind     Kind
	Message  string
	Provider string
	// RetryAfter is the provider-suggested or default wait, in seconds,
	// before a subsequent attempt is likely to succeed. Zero when the kind
	// carries no hint. Always >= 0.
	RetryAfter int

	cause error
}

// New constructs a taxonomy error of the given kind. The retry-after hint is
// filled from the kind's default where one exists.
func New(kind Kind, provider, message string, cause error) *Error {
	retryAfter := 0
	switch kind {
	case KindRateLimit:
		retryAfter = DefaultRateLimitRetryAfter
	case KindServiceUnavailable:
		retryAfter = DefaultServiceUnavailableRetryAfter
	}

	return &Error{
		Kind:       kind,
		Message:    message,
		Provider:   provider,
		RetryAfter: retryAfter,
		cause:      cause,
	}
}

// NewRateLimit constructs a rate-limit error with an explicit retry-after
// hint in seconds. Negative values are clamped to zero; a zero value falls
// back to the 60s default.
func NewRateLimit(provider, message string, retryAfter int, cause error) *Error {
	if retryAfter < 0 {
		retryAfter = 0
	} else if retryAfter == 0 {
		retryAfter = DefaultRateLimitRetryAfter
	}

	return &Error{
		Kind:       KindRateLimit,
		Message:    message,
		Provider:   provider,
		RetryAfter: retryAfter,
		cause:      cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the original raw failure for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether this kind of failure is worth retrying.
func (e *Error) Retryable() bool {
	return retryableByKind[e.Kind]
}

// UserMessage returns the fixed, safe message for this kind, suitable for
// rendering to the end caller.
func (e *Error) UserMessage() string {
	if msg, ok := userMessageByKind[e.Kind]; ok {
		return msg
	}
	return userMessageByKind[KindProvider]
}

// IsRetryable reports whether err carries a retryable taxonomy error.
// Errors outside the taxonomy default to non-retryable, so validation and
// persistence failures are never retried by the core.
func IsRetryable(err error) bool {
	var taxonomyErr *Error
	if errors.As(err, &taxonomyErr) {
		return taxonomyErr.Retryable()
	}
	return false
}

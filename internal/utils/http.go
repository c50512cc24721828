package utils

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// HeaderOption represents a single HTTP header to set on an outgoing request.
// Options are applied after the defaults, so they can override Authorization
// for providers that authenticate through a custom header.
type HeaderOption struct {
	Key   string
	Value string
}

// StatusError is returned for non-2xx provider responses. It preserves the
// status code and the Retry-After header so the error mapper can branch on
// them without re-parsing error strings.
type StatusError struct {
	StatusCode int
	// RetryAfter is the raw Retry-After header value, empty when absent.
	RetryAfter string
	// Body is the response body, truncated for log safety.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}

// RetryAfterSeconds parses the Retry-After header as integer seconds.
// Returns 0 when the header is absent or not a plain integer (the HTTP-date
// form is not used by the providers this gateway talks to).
func (e *StatusError) RetryAfterSeconds() int {
	if e.RetryAfter == "" {
		return 0
	}
	seconds, err := strconv.Atoi(e.RetryAfter)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

// NewHTTPClient builds the shared outbound HTTP client for provider calls.
// connectTimeout bounds the TCP dial; overallTimeout bounds the full
// request including body reads, so a stalled SSE stream surfaces as a
// timeout instead of hanging indefinitely. The client is safe to reuse
// across adapter calls.
func NewHTTPClient(connectTimeout, overallTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: overallTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
			TLSHandshakeTimeout: connectTimeout,
		},
	}
}

// CloseWithLog closes the given closer and logs any close error instead of
// returning it, so deferred cleanup paths never override a primary error.
func CloseWithLog(closer io.Closer) {
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

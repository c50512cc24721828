package llmerr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/minhuy206/chatsapp/internal/utils"
)

// Mapper translates raw transport failures into taxonomy errors. Adapters
// hold a Mapper as an explicit dependency and run every failure through it
// before the error leaves adapter code, so the retry driver only ever
// observes taxonomy kinds.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a Mapper that logs each mapped failure through the given
// logger. A nil logger falls back to slog.Default().
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// Map converts err into exactly one taxonomy error for the named provider.
// Mapping is idempotent: an error that is already a taxonomy instance is
// passed through unchanged, which prevents double-wrapping when failures
// cross multiple layers.
//
// Branch order: taxonomy pass-through, HTTP status, transport timeout,
// connection failure, unrecognized fallback.
func (m *Mapper) Map(provider string, err error) *Error {
	if err == nil {
		return nil
	}

	mapped := m.classify(provider, err)

	m.logger.Error("provider call failed",
		"provider", provider,
		"kind", string(mapped.Kind),
		"error", utils.TruncateStringDefault(err.Error()),
	)

	return mapped
}

func (m *Mapper) classify(provider string, err error) *Error {
	// Already mapped — pass through unchanged.
	var taxonomyErr *Error
	if errors.As(err, &taxonomyErr) {
		return taxonomyErr
	}

	// HTTP-status-carrying failures from the transport helpers.
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return m.classifyStatus(provider, statusErr)
	}

	// Transport-level timeouts: context deadline or a net.Error that
	// reports Timeout(). Both are retryable.
	if errors.Is(err, context.DeadlineExceeded) {
		return New(KindTimeout, provider, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(KindTimeout, provider, "request timed out", err)
	}

	// Connection-layer failures (DNS, refused connection, reset).
	var opErr *net.OpError
	var urlErr *url.Error
	if errors.As(err, &opErr) || errors.As(err, &urlErr) {
		return New(KindProvider, provider, fmt.Sprintf("connection failed: %v", err), err)
	}

	// Anything unrecognized falls back to the generic provider error.
	return New(KindProvider, provider, err.Error(), err)
}

func (m *Mapper) classifyStatus(provider string, statusErr *utils.StatusError) *Error {
	switch statusErr.StatusCode {
	case 429:
		return NewRateLimit(provider, statusErr.Body, statusErr.RetryAfterSeconds(), statusErr)
	case 401, 403:
		return New(KindAuthentication, provider, statusErr.Body, statusErr)
	case 400:
		return New(KindInvalidRequest, provider, statusErr.Body, statusErr)
	case 404:
		return New(KindModelNotFound, provider, statusErr.Body, statusErr)
	case 503:
		return New(KindServiceUnavailable, provider, statusErr.Body, statusErr)
	default:
		message := fmt.Sprintf("unexpected status %d: %s", statusErr.StatusCode, statusErr.Body)
		return New(KindProvider, provider, message, statusErr)
	}
}

// Package retry implements a generic exponential-backoff-with-jitter executor
// for provider calls. Retry eligibility is decided solely by the taxonomy
// retryability of the error: errors outside the taxonomy are never retried,
// so validation and persistence failures always propagate on the first
// attempt.
package retry

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/minhuy206/chatsapp/core/llmerr"
)

// Policy holds the tuning parameters for the retry loop. Zero values are
// replaced with the defaults documented below when the policy is applied.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3.
	MaxAttempts int

	// InitialDelay is the base wait before the first retry. Default: 1s.
	InitialDelay time.Duration

	// MaxDelay caps the computed base delay. Default: 30s.
	MaxDelay time.Duration

	// BackoffMultiplier is the exponential growth factor applied to the
	// base delay after each retry. Default: 2.0.
	BackoffMultiplier float64
}

// jitterFraction bounds the random noise added to each base delay:
// actual delay = base + base * U(0, jitterFraction). The noise avoids
// thundering-herd retries against an already struggling provider.
const jitterFraction = 0.25

// DefaultPolicy returns the policy used for provider calls when the caller
// does not supply one.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func (p *Policy) applyDefaults() {
	defaults := DefaultPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = defaults.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = defaults.InitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaults.MaxDelay
	}
	if p.BackoffMultiplier <= 1 {
		p.BackoffMultiplier = defaults.BackoffMultiplier
	}
}

// Driver executes operations under a retry policy. It is stateless apart
// from its logger and safe for concurrent use.
type Driver struct {
	logger *slog.Logger

	// sleep is swapped out in tests to observe computed delays without
	// actually waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDriver creates a Driver that logs each retry through the given logger.
// A nil logger falls back to slog.Default().
func NewDriver(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		logger: logger,
		sleep:  sleepContext,
	}
}

// Do invokes op until it succeeds, the policy's attempts are exhausted, or a
// non-retryable error occurs. The last error is propagated unchanged — this
// layer never wraps, so the boundary receives the taxonomy error the adapter
// produced.
//
// Between attempts the driver sleeps for base + base*U(0, 0.25), where the
// base delay starts at InitialDelay and is multiplied by BackoffMultiplier
// after each retry, capped at MaxDelay. The sleep respects context
// cancellation: an aborted wait returns the context error without starting
// another attempt.
func (d *Driver) Do(ctx context.Context, policy Policy, op func() error) error {
	policy.applyDefaults()

	delay := policy.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= policy.MaxAttempts || !llmerr.IsRetryable(err) {
			return lastErr
		}

		wait := withJitter(delay)
		d.logger.Warn("retrying provider call",
			"error", err.Error(),
			"attempt", attempt,
			"delay", wait.String(),
		)

		if sleepErr := d.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}

		delay = nextDelay(delay, policy)
	}

	return lastErr
}

// nextDelay advances the base delay by the backoff multiplier, capped at
// the policy maximum.
func nextDelay(delay time.Duration, policy Policy) time.Duration {
	next := time.Duration(float64(delay) * policy.BackoffMultiplier)
	if next > policy.MaxDelay {
		next = policy.MaxDelay
	}
	return next
}

// withJitter returns base + base*U(0, jitterFraction), so the actual wait
// always lies in [base, base*1.25).
func withJitter(base time.Duration) time.Duration {
	jitter := float64(base) * jitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter is intentional
	return base + time.Duration(jitter)
}

// sleepContext blocks for d or until the context is cancelled, whichever
// comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minhuy206/chatsapp/core/llmerr"
)

// newTestDriver returns a driver whose sleeps are recorded instead of waited.
func newTestDriver() (*Driver, *[]time.Duration) {
	var slept []time.Duration
	driver := NewDriver(nil)
	driver.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return driver, &slept
}

// TestDo_SucceedsFirstAttempt verifies that a successful operation runs once
// and never sleeps.
func TestDo_SucceedsFirstAttempt(t *testing.T) {
	driver, slept := newTestDriver()

	calls := 0
	err := driver.Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("slept %d times, want 0", len(*slept))
	}
}

// TestDo_RetriesRetryableThenSucceeds verifies that retryable failures are
// retried and the eventual success is reported.
func TestDo_RetriesRetryableThenSucceeds(t *testing.T) {
	driver, slept := newTestDriver()

	calls := 0
	err := driver.Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		if calls < 3 {
			return llmerr.New(llmerr.KindServiceUnavailable, "openai", "down", nil)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3", calls)
	}
	if len(*slept) != 2 {
		t.Errorf("slept %d times, want 2", len(*slept))
	}
}

// TestDo_NonRetryableFailsImmediately verifies that a non-retryable taxonomy
// error stops the loop on the first attempt with the error unchanged.
func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	driver, slept := newTestDriver()

	original := llmerr.New(llmerr.KindAuthentication, "openai", "bad key", nil)
	calls := 0
	err := driver.Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		return original
	})

	if !errors.Is(err, original) {
		t.Fatalf("Do returned %v, want the original error", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("slept %d times, want 0", len(*slept))
	}
}

// TestDo_NonTaxonomyErrorNeverRetried verifies that errors outside the
// taxonomy (validation, persistence) propagate on the first attempt.
func TestDo_NonTaxonomyErrorNeverRetried(t *testing.T) {
	driver, _ := newTestDriver()

	original := errors.New("constraint violation")
	calls := 0
	err := driver.Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		return original
	})

	if !errors.Is(err, original) {
		t.Fatalf("Do returned %v, want the original error", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

// TestDo_ExhaustsAttempts verifies that a persistently retryable failure runs
// MaxAttempts times and returns the last error unchanged.
func TestDo_ExhaustsAttempts(t *testing.T) {
	driver, slept := newTestDriver()

	original := llmerr.New(llmerr.KindProvider, "openai", "flaky", nil)
	calls := 0
	err := driver.Do(context.Background(), Policy{MaxAttempts: 4}, func() error {
		calls++
		return original
	})

	if !errors.Is(err, original) {
		t.Fatalf("Do returned %v, want the original error", err)
	}
	if calls != 4 {
		t.Errorf("operation ran %d times, want 4", calls)
	}
	if len(*slept) != 3 {
		t.Errorf("slept %d times, want 3", len(*slept))
	}
}

// TestDo_BackoffGrowthAndJitterBounds verifies the delay schedule: each wait
// lies in [base, base*1.25) where the base doubles per retry and caps at
// MaxDelay.
func TestDo_BackoffGrowthAndJitterBounds(t *testing.T) {
	driver, slept := newTestDriver()

	policy := Policy{
		MaxAttempts:       8,
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
	}

	_ = driver.Do(context.Background(), policy, func() error {
		return llmerr.New(llmerr.KindTimeout, "openai", "slow", nil)
	})

	wantBases := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // 32s capped
		30 * time.Second,
	}
	if len(*slept) != len(wantBases) {
		t.Fatalf("slept %d times, want %d", len(*slept), len(wantBases))
	}

	for i, wait := range *slept {
		base := wantBases[i]
		upper := base + time.Duration(float64(base)*jitterFraction)
		if wait < base || wait > upper {
			t.Errorf("sleep %d = %v, want in [%v, %v]", i, wait, base, upper)
		}
	}
}

// TestDo_ContextCancelledDuringSleep verifies that an aborted wait returns
// the context error without another attempt.
func TestDo_ContextCancelledDuringSleep(t *testing.T) {
	driver := NewDriver(nil)
	driver.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	calls := 0
	err := driver.Do(context.Background(), DefaultPolicy(), func() error {
		calls++
		return llmerr.New(llmerr.KindProvider, "openai", "flaky", nil)
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do returned %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("operation ran %d times, want 1", calls)
	}
}

// TestPolicy_ApplyDefaults verifies that a zero policy receives the
// documented defaults.
func TestPolicy_ApplyDefaults(t *testing.T) {
	var policy Policy
	policy.applyDefaults()

	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", policy.MaxAttempts)
	}
	if policy.InitialDelay != time.Second {
		t.Errorf("InitialDelay = %v, want 1s", policy.InitialDelay)
	}
	if policy.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", policy.MaxDelay)
	}
	if policy.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", policy.BackoffMultiplier)
	}
}

// TestSleepContext verifies the real sleep honors cancellation.
func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepContext(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext returned %v, want context.Canceled", err)
	}

	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext returned %v, want nil", err)
	}
}

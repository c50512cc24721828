package utils

import (
	"strings"
	"testing"
)

// TestTruncateString verifies length capping and the short-string pass-through.
func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString(short) = %q, want unchanged", got)
	}

	long := strings.Repeat("a", 600)
	got := TruncateString(long, 100)
	if !strings.HasPrefix(got, strings.Repeat("a", 100)) {
		t.Error("truncated string should keep the prefix")
	}
	if !strings.Contains(got, "total: 600 chars") {
		t.Errorf("truncated string should record the original length, got %q", got)
	}

	// Non-positive maxLen falls back to the default.
	if got := TruncateString(long, 0); !strings.Contains(got, "total: 600 chars") {
		t.Errorf("TruncateString with maxLen 0 = %q, want default truncation", got)
	}
	if got := TruncateStringDefault(strings.Repeat("b", DefaultMaxStringLength)); got != strings.Repeat("b", DefaultMaxStringLength) {
		t.Error("string at the default limit should pass through unchanged")
	}
}

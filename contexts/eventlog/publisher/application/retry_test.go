package application

import (
	"testing"
	"time"
)

func TestNextRetryAtGrowsExponentiallyAndCaps(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
	now := time.Unix(1700000000, 0).UTC()

	first := policy.NextRetryAt(now, 0).Sub(now)
	second := policy.NextRetryAt(now, 1).Sub(now)
	if second <= first {
		t.Fatalf("expected attempt 1 delay (%v) to exceed attempt 0 delay (%v)", second, first)
	}

	capped := policy.NextRetryAt(now, 10).Sub(now)
	if capped > policy.MaxDelay+time.Duration(0.1*float64(policy.MaxDelay))+time.Millisecond {
		t.Fatalf("expected delay to respect the cap plus jitter, got %v", capped)
	}
}

func TestShouldMoveToDLQRespectsMaxAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3}
	if policy.ShouldMoveToDLQ(2) {
		t.Fatalf("attempt 2 should not exceed budget of 3")
	}
	if !policy.ShouldMoveToDLQ(3) {
		t.Fatalf("attempt 3 should exhaust budget of 3")
	}
}

func TestDefaultRetryPolicyFallbacksApplyWhenUnset(t *testing.T) {
	var policy RetryPolicy
	now := time.Unix(1700000000, 0).UTC()
	if !policy.NextRetryAt(now, 0).After(now) {
		t.Fatalf("expected zero-value policy to still schedule a future retry")
	}
	if policy.ShouldMoveToDLQ(9) {
		t.Fatalf("zero-value policy should default to 10 max attempts")
	}
	if !policy.ShouldMoveToDLQ(10) {
		t.Fatalf("zero-value policy should move to dlq at attempt 10")
	}
}

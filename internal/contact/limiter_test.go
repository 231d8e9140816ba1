package contact

import (
	"testing"
	"time"
)

func TestRateLimiterBurstAndRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, 10*time.Minute)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("a"); !ok {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	ok, retry := limiter.Allow("a")
	if ok {
		t.Fatalf("third attempt should be limited")
	}
	if retry <= 0 || retry > 10*time.Minute {
		t.Fatalf("unexpected retry after %s", retry)
	}

	if ok, _ := limiter.Allow("b"); !ok {
		t.Fatalf("other keys must have their own bucket")
	}

	now = now.Add(10 * time.Minute)
	if ok, _ := limiter.Allow("a"); !ok {
		t.Fatalf("expected a token after one interval")
	}
}

func TestRateLimiterPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.Allow("old")
	now = now.Add(time.Hour)
	limiter.Allow("fresh")

	if removed := limiter.Prune(30 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 pruned bucket, got %d", removed)
	}
	if limiter.Len() != 1 {
		t.Fatalf("expected 1 remaining bucket, got %d", limiter.Len())
	}
}

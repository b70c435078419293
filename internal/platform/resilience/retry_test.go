package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		Jitter:        0,
		BackoffFactor: 1.8,
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	got := Retry(context.Background(), fastRetryConfig(4), -1, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ExhaustedReturnsFallback(t *testing.T) {
	calls := 0
	got := Retry(context.Background(), fastRetryConfig(4), []string{}, func(context.Context) ([]string, error) {
		calls++
		return nil, errors.New("still down")
	})

	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty fallback slice, got %v", got)
	}
	if calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", calls)
	}
}

func TestRetry_CancelledContextReturnsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	got := Retry(ctx, fastRetryConfig(4), "fallback", func(context.Context) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	if got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if calls != 0 {
		t.Fatalf("expected no attempts on cancelled context, got %d", calls)
	}
}

func TestRetry_BackoffCappedAtMaxDelay(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:   5,
		InitialDelay:  time.Millisecond,
		MaxDelay:      3 * time.Millisecond,
		Jitter:        0,
		BackoffFactor: 10,
	}

	started := time.Now()
	Retry(context.Background(), cfg, 0, func(context.Context) (int, error) {
		return 0, errors.New("nope")
	})

	// 4 sleeps, each at most 3ms once the cap kicks in.
	if elapsed := time.Since(started); elapsed > 500*time.Millisecond {
		t.Fatalf("backoff exceeded cap, took %s", elapsed)
	}
}

func TestNormalizeRetryConfig_Defaults(t *testing.T) {
	cfg := NormalizeRetryConfig(RetryConfig{})
	defaults := DefaultRetryConfig()

	if cfg != defaults {
		t.Fatalf("expected defaults %+v, got %+v", defaults, cfg)
	}
}

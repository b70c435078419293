package resilience

import (
	"context"
	"math/rand/v2"
	"time"
)

type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
	BackoffFactor float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   4,
		InitialDelay:  time.Second,
		MaxDelay:      6 * time.Second,
		Jitter:        400 * time.Millisecond,
		BackoffFactor: 1.8,
	}
}

func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	defaults := DefaultRetryConfig()
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = defaults.InitialDelay
	}
	if cfg.MaxDelay < cfg.InitialDelay {
		cfg.MaxDelay = defaults.MaxDelay
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = defaults.Jitter
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = defaults.BackoffFactor
	}
	return cfg
}

// Retry runs op up to MaxAttempts times, sleeping a jittered backoff between
// attempts. When every attempt fails, or ctx is cancelled mid-wait, it
// returns fallback instead of an error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fallback T, op func(context.Context) (T, error)) T {
	cfg = NormalizeRetryConfig(cfg)

	delay := cfg.InitialDelay
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fallback
		}

		val, err := op(ctx)
		if err == nil {
			return val
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		wait := delay
		if cfg.Jitter > 0 {
			wait += time.Duration(rand.Float64() * float64(cfg.Jitter))
		}
		if !sleepContext(ctx, wait) {
			return fallback
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

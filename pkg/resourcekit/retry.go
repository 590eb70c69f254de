package resourcekit

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retrying of driver Open calls. Retries apply
// only to the construction performed by the winning caller; the
// registry's at-most-one-construction guarantee is unaffected.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// RetryableFunc decides whether an error is worth retrying.
	// If nil, every driver error is considered retryable.
	RetryableFunc func(error) bool
}

// NoRetry disables retries; the first driver error is final.
var NoRetry = RetryConfig{MaxAttempts: 1}

// DefaultRetry retries transient open failures a few times with short
// exponential backoff.
var DefaultRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// retryOpen runs fn according to cfg, respecting context cancellation
// between attempts and during backoff.
func retryOpen(ctx context.Context, cfg RetryConfig, fn func(context.Context) (Resource, error)) (Resource, error) {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := cfg.RetryableFunc
	if retryable == nil {
		retryable = func(error) bool { return true }
	}

	backoff := cfg.InitialBackoff
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) || attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(jitterBackoff(backoff, cfg.Jitter)):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
	return nil, lastErr
}

// jitterBackoff applies +/- jitter to the base duration.
func jitterBackoff(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}
	amount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + amount)
}

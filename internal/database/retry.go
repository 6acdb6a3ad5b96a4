package database

import (
	"context"
	"time"
)

// RetryPolicy controls how often and how patiently a connection is retried.
type RetryPolicy struct {
	MaxRetries  int           // attempts after the first one
	BaseBackoff time.Duration // first delay, doubled after each failure
	MaxBackoff  time.Duration // upper bound on a single delay
	JitterFn    func(time.Duration) time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  5,
		BaseBackoff: 200 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
		JitterFn:    func(d time.Duration) time.Duration { return d / 2 },
	}
}

// Retry executes fn with retries, backoff, and cancellation support.
//
// fn must return nil on success.
// Any non-nil error is treated as retryable.
func Retry(
	ctx context.Context,
	policy RetryPolicy,
	fn func() error,
) error {
	var attempt int
	backoff := policy.BaseBackoff

	for {
		err := fn()
		if err == nil {
			return nil
		}

		attempt++
		if attempt > policy.MaxRetries {
			return err
		}

		delay := backoff
		if policy.JitterFn != nil {
			delay += policy.JitterFn(backoff)
		}
		if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			backoff *= 2
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

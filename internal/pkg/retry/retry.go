// Package retry provides a bounded retry policy for calls to external
// providers. Geocoding and routing share the same policy object so retry
// behavior is configured in one place instead of per call site.
package retry

import (
	"context"
	"time"

	"freight/internal/pkg/errs"
)

// Policy describes how often and how fast an operation is retried.
// MaxAttempts counts the initial attempt, so MaxAttempts=3 means up to
// two retries. Delay is a fixed pause between attempts.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// NewPolicy creates a retry policy. MaxAttempts must be at least 1.
func NewPolicy(maxAttempts int, delay time.Duration) (Policy, error) {
	if maxAttempts < 1 {
		return Policy{}, errs.NewValueIsInvalidError("maxAttempts")
	}
	if delay < 0 {
		return Policy{}, errs.NewValueIsInvalidError("delay")
	}
	return Policy{MaxAttempts: maxAttempts, Delay: delay}, nil
}

// Do runs op until it succeeds, returns a non-retryable error, or the
// attempt budget is exhausted. retryable decides which errors are worth
// another attempt; a nil retryable retries every error. The last error
// is returned unchanged so callers can classify it with errors.Is.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error, retryable func(error) bool) error {
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 && p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

package rate

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/tenk"
)

// DefaultRetryDelays returns the backoff delays for service retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether err may succeed on another attempt. Credential
// and input errors never do.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch tenk.ErrorCode(err) {
	case tenk.EUNAUTHORIZED, tenk.EINVALID, tenk.ENOTFOUND, tenk.ECONFLICT:
		return false
	}
	return true
}

// Do calls fn until it succeeds, fails with a non-retryable error, or the
// delays are exhausted. onRetry, if set, is called before each retry.
func Do[T any](ctx context.Context, delays []time.Duration, fn func() (T, error), onRetry func(attempt int, err error)) (T, error) {
	maxAttempts := len(delays) + 1

	var zero T
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !Retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

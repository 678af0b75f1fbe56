package ai

import (
	"context"
	"errors"
	"log"
	"time"
)

// RetryPolicy bounds attempts for retryable backend failures
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration // multiplied by the attempt number
}

// DefaultRetryPolicy allows one retry after half a second
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, Backoff: 500 * time.Millisecond}

// withRetry runs fn until it succeeds, fails with a non-retryable error,
// runs out of attempts, or ctx is done
func withRetry(ctx context.Context, policy RetryPolicy, op string, fn func(ctx context.Context) (string, error)) (string, error) {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr *BackendError
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}

		lastErr = newBackendError(op, err)
		if !lastErr.Retryable || attempt == attempts {
			break
		}

		log.Printf("🔁 %s: attempt %d/%d failed, retrying: %v", op, attempt, attempts, err)
		select {
		case <-time.After(policy.Backoff * time.Duration(attempt)):
		case <-ctx.Done():
			return "", &BackendError{Op: op, Retryable: false, Err: errors.Join(lastErr.Err, ctx.Err())}
		}
	}

	return "", lastErr
}

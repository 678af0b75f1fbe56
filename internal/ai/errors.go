package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// BackendError is a failed or timed-out generative backend call
type BackendError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// newBackendError wraps err, classifying it as retryable or not
func newBackendError(op string, err error) *BackendError {
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	return &BackendError{Op: op, Retryable: isRetryable(err), Err: err}
}

// isRetryable separates transient transport failures from answers that
// will not change on a second attempt
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

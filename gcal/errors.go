// ABOUTME: Provider error type for Google Calendar API failures
// ABOUTME: Wraps network/auth errors with operation context and HTTP status
package gcal

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ProviderError reports a failed call to the calendar provider. Callers must
// treat these as "no events available" rather than fatal; local data still
// renders.
type ProviderError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("calendar %s failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("calendar %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(op string, err error) *ProviderError {
	pe := &ProviderError{Op: op, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		pe.StatusCode = apiErr.Code
	}
	return pe
}

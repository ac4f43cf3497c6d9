// ABOUTME: Error taxonomy shared across storage, sync, and web layers
// ABOUTME: Defines AuthError, NotConnectedError, PersistenceError, and ValidationError
package models

import "fmt"

// AuthError indicates a missing or invalid session. Surfaced as 401.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// NotConnectedError indicates the calendar provider is not linked for the
// user. Surfaced as 400 with an actionable message.
type NotConnectedError struct {
	Provider string
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("%s calendar not connected", e.Provider)
}

// PersistenceError wraps a failed local storage write. These always surface
// to the user since they represent lost edits; the optimistic in-memory
// state is not reverted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError reports a malformed request field. Surfaced as 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

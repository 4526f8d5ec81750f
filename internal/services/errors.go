package services

import "fmt"

// LoadError indicates a catalog or settings fetch failed. Callers should
// present a retryable error state rather than crash.
type LoadError struct {
	Op  string
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("failed to load %s: %v", e.Op, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError indicates client input violated a constraint. It is
// raised before any remote store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MutationError indicates a create/update/delete/upload failed partway.
// Writes issued before the failure are retained, not rolled back.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *MutationError) Unwrap() error { return e.Err }

// AuthError indicates invalid credentials or an invalid session token.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid credentials"
}

func (e *AuthError) Unwrap() error { return e.Err }

// Package source turns the rows of the input sheet into audit targets.
package source

import "fmt"

// ValidationError represents a malformed source row.
type ValidationError struct {
	Row     int
	ID      string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error at row %d: %s", e.Row, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

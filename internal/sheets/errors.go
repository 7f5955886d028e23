// Package sheets reads the source list from and appends audit rows to a
// Google Sheets spreadsheet.
package sheets

import "fmt"

// DestinationNotFoundError means no sheet exists with the name derived from
// a record id. Sheets are never created here.
type DestinationNotFoundError struct {
	Sheet string
}

func (e *DestinationNotFoundError) Error() string {
	return fmt.Sprintf("destination sheet %q not found", e.Sheet)
}

// SourceNotFoundError means the spreadsheet has no sheet holding the url list.
type SourceNotFoundError struct {
	Sheet string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source sheet %q not found", e.Sheet)
}

// APIError wraps a failed Sheets API call.
type APIError struct {
	Op    string
	Cause error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheets %s failed: %v", e.Op, e.Cause)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Package audit runs PageSpeed Insights audits and converts their responses.
package audit

import "fmt"

// TransportError wraps a failure of the audit service call itself:
// network errors, timeouts, non-2xx responses, undecodable payloads.
type TransportError struct {
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("audit of %s failed: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeStatus is the final state of one source row in a run.
type OutcomeStatus string

const (
	StatusSucceeded OutcomeStatus = "succeeded"
	StatusFailed    OutcomeStatus = "failed"
	StatusSkipped   OutcomeStatus = "skipped"
	// StatusDuplicate marks a record whose sheet already received a row for
	// the same run date.
	StatusDuplicate OutcomeStatus = "duplicate"
)

// ErrorKind classifies a failed outcome.
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindIncompleteResult    ErrorKind = "incomplete_result"
	KindDestinationNotFound ErrorKind = "destination_not_found"
	KindTransport           ErrorKind = "transport"
	KindConfiguration       ErrorKind = "configuration"
	KindUnknown             ErrorKind = "unknown"
)

// Outcome is the result of processing one source row.
type Outcome struct {
	Row    int           `json:"row"`
	ID     string        `json:"id,omitempty"`
	URL    string        `json:"url,omitempty"`
	Sheet  string        `json:"sheet,omitempty"`
	Status OutcomeStatus `json:"status"`
	Kind   ErrorKind     `json:"error_kind,omitempty"`
	Error  string        `json:"error,omitempty"`

	Err error `json:"-"`
}

// RunReport lists one outcome per source row, in sheet order.
type RunReport struct {
	RunID         uuid.UUID `json:"run_id"`
	SchemaVersion int       `json:"schema_version"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Outcomes      []Outcome `json:"outcomes"`
}

// Failed reports whether any outcome failed.
func (r *RunReport) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Failures returns the failed outcomes in sheet order.
func (r *RunReport) Failures() []Outcome {
	var failures []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failures = append(failures, o)
		}
	}
	return failures
}

// Count returns the number of outcomes with the given status.
func (r *RunReport) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values.
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// RunDateLayout formats the date a sheet write is deduplicated on.
const RunDateLayout = "2006-01-02"

// RunSummary is one row of the run history
type RunSummary struct {
	ID            uuid.UUID `json:"id"`
	SchemaVersion int       `json:"schema_version"`
	Status        string    `json:"status"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Succeeded     int       `json:"succeeded"`
	Failed        int       `json:"failed"`
	Skipped       int       `json:"skipped"`
}

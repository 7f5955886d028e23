package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/pagespeed-recorder/internal/sheets"
)

// ErrRunInProgress indicates another run has not finished yet
type ErrRunInProgress struct{}

func (e *ErrRunInProgress) Error() string {
	return "a run is already in progress"
}

// ErrHistoryDisabled indicates no ledger database is configured
type ErrHistoryDisabled struct{}

func (e *ErrHistoryDisabled) Error() string {
	return "run history requires DATABASE_URL"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		inProgress *ErrRunInProgress
		disabled   *ErrHistoryDisabled
		validation *ErrValidation
		notFound   *sheets.SourceNotFoundError
	)

	switch {
	case errors.As(err, &inProgress):
		return http.StatusConflict
	case errors.As(err, &disabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

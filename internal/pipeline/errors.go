package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/pagespeed-recorder/internal/audit"
	"github.com/jonathan/pagespeed-recorder/internal/config"
	"github.com/jonathan/pagespeed-recorder/internal/mapping"
	"github.com/jonathan/pagespeed-recorder/internal/sheets"
	"github.com/jonathan/pagespeed-recorder/internal/source"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// RunFailedError is returned when at least one record failed. Rows of the
// other records have already been written.
type RunFailedError struct {
	Failures []types.Outcome
}

func (e *RunFailedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run failed: %d record(s) failed", len(e.Failures))
	for _, f := range e.Failures {
		fmt.Fprintf(&sb, "\n  row %d id=%q url=%q (%s): %s", f.Row, f.ID, f.URL, f.Kind, f.Error)
	}
	return sb.String()
}

// Unwrap exposes the per-record errors to errors.Is and errors.As.
func (e *RunFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// KindOf classifies err by the typed error it wraps.
func KindOf(err error) types.ErrorKind {
	if err == nil {
		return ""
	}

	var (
		validationErr  *source.ValidationError
		incompleteErr  *mapping.IncompleteResultError
		destinationErr *sheets.DestinationNotFoundError
		transportErr   *audit.TransportError
		sheetsAPIErr   *sheets.APIError
		configErr      *config.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr):
		return types.KindValidation
	case errors.As(err, &incompleteErr):
		return types.KindIncompleteResult
	case errors.As(err, &destinationErr):
		return types.KindDestinationNotFound
	case errors.As(err, &transportErr), errors.As(err, &sheetsAPIErr):
		return types.KindTransport
	case errors.As(err, &configErr):
		return types.KindConfiguration
	default:
		return types.KindUnknown
	}
}

// Package types provides type definitions for structured data shared by the
// audit pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// SourceRecord is one (id, url) pair read from the input sheet.
type SourceRecord struct {
	Row int    `json:"row"` // 1-based sheet row, header included
	ID  string `json:"id" validate:"required"`
	URL string `json:"url" validate:"required"`
}

// Validate validates the SourceRecord using the validator.
func (r *SourceRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

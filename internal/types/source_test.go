package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  SourceRecord
		wantErr bool
	}{
		{"valid", SourceRecord{Row: 2, ID: "1", URL: "https://example.com"}, false},
		{"missing url", SourceRecord{Row: 3, ID: "2"}, true},
		{"missing id", SourceRecord{Row: 4, URL: "https://example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReport_Counts(t *testing.T) {
	report := &RunReport{Outcomes: []Outcome{
		{Row: 2, Status: StatusSucceeded},
		{Row: 3, Status: StatusFailed, Kind: KindTransport},
		{Row: 4, Status: StatusSkipped},
		{Row: 5, Status: StatusDuplicate},
		{Row: 6, Status: StatusFailed, Kind: KindValidation},
	}}

	assert.True(t, report.Failed())
	assert.Equal(t, 1, report.Count(StatusSucceeded))
	assert.Equal(t, 2, report.Count(StatusFailed))

	failures := report.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, 3, failures[0].Row, "failures keep sheet order")
	assert.Equal(t, 6, failures[1].Row)
}

func TestRunReport_NotFailed(t *testing.T) {
	report := &RunReport{Outcomes: []Outcome{
		{Row: 2, Status: StatusSkipped},
		{Row: 3, Status: StatusDuplicate},
	}}

	assert.False(t, report.Failed())
	assert.Empty(t, report.Failures())
}

func TestOutcome_JSONOmitsCause(t *testing.T) {
	o := Outcome{Row: 2, ID: "1", Status: StatusFailed, Kind: KindTransport, Error: "timeout", Err: errors.New("timeout")}

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"row":2,"id":"1","status":"failed","error_kind":"transport","error":"timeout"}`, string(data))
}

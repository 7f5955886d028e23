// Package schemas embeds the JSON Schemas of the documents the recorder
// reads and writes.
package schemas

import _ "embed"

// PageSpeedResponse describes a saved runpagespeed response.
//
//go:embed pagespeed_response.schema.json
var PageSpeedResponse string

// RunReport describes a run report in JSON form.
//
//go:embed run_report.schema.json
var RunReport string

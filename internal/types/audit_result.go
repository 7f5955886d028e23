//nolint:revive // types is a standard Go package name pattern
package types

// AuditResult is the part of a page audit the row mapper consumes.
// A nil section or a nil map means the service did not return it.
type AuditResult struct {
	LoadingExperience *LoadingExperience `json:"loadingExperience,omitempty"`
	LighthouseResult  *LighthouseResult  `json:"lighthouseResult,omitempty"`
}

// LoadingExperience holds real-user (field) metrics keyed by metric name.
type LoadingExperience struct {
	Metrics map[string]Metric `json:"metrics,omitempty"`
}

// Metric is one field metric. Percentile is nil when not reported.
type Metric struct {
	Percentile *float64 `json:"percentile,omitempty"`
}

// LighthouseResult holds lab category scores and audit outcomes.
type LighthouseResult struct {
	Categories map[string]Score `json:"categories,omitempty"`
	Audits     map[string]Score `json:"audits,omitempty"`
}

// Score is a 0-1 score, nil when the category or audit was not scored.
type Score struct {
	Value *float64 `json:"score"`
}

// Float returns a pointer to v, for building results in code.
func Float(v float64) *float64 {
	return &v
}

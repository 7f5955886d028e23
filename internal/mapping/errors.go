// Package mapping flattens audit results into fixed-width sheet rows.
package mapping

import "fmt"

// Sections the mapper requires.
const (
	SectionLoadingExperience = "loadingExperience"
	SectionMetrics           = "loadingExperience.metrics"
	SectionLighthouseResult  = "lighthouseResult"
	SectionCategories        = "lighthouseResult.categories"
	SectionAudits            = "lighthouseResult.audits"
)

// IncompleteResultError means the audit result lacks a section the row
// cannot be built without.
type IncompleteResultError struct {
	URL     string
	Section string
}

func (e *IncompleteResultError) Error() string {
	return fmt.Sprintf("incomplete audit result for %s: missing %s", e.URL, e.Section)
}

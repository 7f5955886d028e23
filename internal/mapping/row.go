package mapping

import (
	"time"

	"github.com/jonathan/pagespeed-recorder/internal/schema"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// TimestampLayout is the format of the timestamp column.
const TimestampLayout = time.RFC3339

// BuildRow flattens result into a row for url stamped with now. It fails with
// *IncompleteResultError, and returns no row, when field data, category scores
// or audits are absent. Audits that were not run and audits without a score
// both become missing cells.
func BuildRow(result *types.AuditResult, url string, now time.Time) (types.OutputRow, error) {
	if err := checkSections(result, url); err != nil {
		return types.OutputRow{}, err
	}

	metrics := result.LoadingExperience.Metrics
	categories := result.LighthouseResult.Categories
	audits := result.LighthouseResult.Audits

	cells := make([]types.Cell, 0, schema.Width()-2)
	for _, key := range schema.MetricKeys() {
		cells = append(cells, types.CellOf(metrics[key].Percentile))
	}
	for _, key := range schema.CategoryKeys() {
		cells = append(cells, types.CellOf(categories[key].Value))
	}
	for _, key := range schema.AuditKeys() {
		cells = append(cells, types.CellOf(audits[key].Value))
	}

	return types.OutputRow{
		Timestamp: now.Format(TimestampLayout),
		URL:       url,
		Cells:     cells,
	}, nil
}

func checkSections(result *types.AuditResult, url string) error {
	missing := func(section string) error {
		return &IncompleteResultError{URL: url, Section: section}
	}

	switch {
	case result == nil || result.LoadingExperience == nil:
		return missing(SectionLoadingExperience)
	case result.LoadingExperience.Metrics == nil:
		return missing(SectionMetrics)
	case result.LighthouseResult == nil:
		return missing(SectionLighthouseResult)
	case result.LighthouseResult.Categories == nil:
		return missing(SectionCategories)
	case result.LighthouseResult.Audits == nil:
		return missing(SectionAudits)
	}
	return nil
}

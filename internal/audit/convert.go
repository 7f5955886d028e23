package audit

import (
	"encoding/json"
	"fmt"

	"google.golang.org/api/pagespeedonline/v5"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// Convert extracts the sections the row mapper needs from a PageSpeed
// response. Absent sections stay nil so the mapper can reject them.
//
// The API type stores a metric percentile as a plain integer, so an absent
// percentile reads as 0 here. DecodeResponse keeps the distinction and is
// preferred whenever the raw body is available.
func Convert(resp *pagespeedonline.PagespeedApiPagespeedResponseV5) *types.AuditResult {
	result := &types.AuditResult{}
	if resp == nil {
		return result
	}

	if le := resp.LoadingExperience; le != nil {
		result.LoadingExperience = &types.LoadingExperience{}
		if le.Metrics != nil {
			result.LoadingExperience.Metrics = make(map[string]types.Metric, len(le.Metrics))
			for key, m := range le.Metrics {
				result.LoadingExperience.Metrics[key] = types.Metric{Percentile: types.Float(float64(m.Percentile))}
			}
		}
	}

	if lr := resp.LighthouseResult; lr != nil {
		result.LighthouseResult = &types.LighthouseResult{
			Categories: convertCategories(lr.Categories),
		}
		if lr.Audits != nil {
			result.LighthouseResult.Audits = make(map[string]types.Score, len(lr.Audits))
			for key, a := range lr.Audits {
				result.LighthouseResult.Audits[key] = types.Score{Value: scoreValue(a.Score)}
			}
		}
	}

	return result
}

// percentileView decodes only the metric percentiles, keeping absent ones nil.
type percentileView struct {
	LoadingExperience *struct {
		Metrics map[string]struct {
			Percentile *float64 `json:"percentile"`
		} `json:"metrics"`
	} `json:"loadingExperience"`
}

// DecodeResponse decodes a PageSpeed v5 JSON response body. A metric without
// a percentile maps to a nil Percentile rather than 0.
func DecodeResponse(data []byte) (*types.AuditResult, error) {
	var resp pagespeedonline.PagespeedApiPagespeedResponseV5
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode pagespeed response: %w", err)
	}
	var view percentileView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to decode pagespeed response: %w", err)
	}

	result := Convert(&resp)
	if le := result.LoadingExperience; le != nil && le.Metrics != nil && view.LoadingExperience != nil {
		for key, m := range view.LoadingExperience.Metrics {
			le.Metrics[key] = types.Metric{Percentile: m.Percentile}
		}
	}
	return result, nil
}

func convertCategories(c *pagespeedonline.Categories) map[string]types.Score {
	if c == nil {
		return nil
	}

	byKey := map[string]*pagespeedonline.LighthouseCategoryV5{
		"performance":    c.Performance,
		"accessibility":  c.Accessibility,
		"best-practices": c.BestPractices,
		"seo":            c.Seo,
		"pwa":            c.Pwa,
	}

	categories := make(map[string]types.Score, len(byKey))
	for key, cat := range byKey {
		if cat != nil {
			categories[key] = types.Score{Value: scoreValue(cat.Score)}
		}
	}
	return categories
}

// scoreValue reads the loosely typed score field of the API types.
func scoreValue(v any) *float64 {
	switch s := v.(type) {
	case float64:
		return types.Float(s)
	case float32:
		return types.Float(float64(s))
	case int:
		return types.Float(float64(s))
	case int64:
		return types.Float(float64(s))
	case json.Number:
		if f, err := s.Float64(); err == nil {
			return types.Float(f)
		}
	}
	return nil
}

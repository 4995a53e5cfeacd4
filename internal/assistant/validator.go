package assistant

import (
	"encoding/json"
	"strings"

	"github.com/arialabs/aria/internal/models"
)

// metricCheck pairs the response-side keywords for one required metric
// with the data-side keywords that prove the metric was available at all.
type metricCheck struct {
	name         string
	textKeywords []string
	dataKeywords []string
}

var requiredMetrics = []metricCheck{
	{
		name:         "price",
		textKeywords: []string{"prix", "price", "cours", "$", "€"},
		dataKeywords: []string{"\"price\"", "lastdone"},
	},
	{
		name:         "change",
		textKeywords: []string{"variation", "change", "%", "hausse", "baisse", "gain", "perte"},
		dataKeywords: []string{"changespercentage", "\"change\""},
	},
	{
		name:         "pe_ratio",
		textKeywords: []string{"per", "p/e", "pe ratio", "ratio cours", "price-to-earnings"},
		dataKeywords: []string{"peratio", "priceearningsratio", "\"pe\""},
	},
	{
		name:         "eps",
		textKeywords: []string{"bpa", "eps", "bénéfice par action", "earnings per share"},
		dataKeywords: []string{"\"eps\"", "netincomepershare"},
	},
	{
		name:         "year_range",
		textKeywords: []string{"52 semaines", "52-week", "52 week", "sur un an", "annuel"},
		dataKeywords: []string{"yearhigh", "yearlow", "fiftytwoweek"},
	},
}

// Validate runs the advisory coverage check over a synthesized answer.
// A metric counts as missing only when the tool data carried a plausible
// signal for it; the synthesis is never penalized for data it never had.
func Validate(content string, results []models.ToolResult) *models.ValidationReport {
	text := strings.ToLower(content)
	serialized := strings.ToLower(serializeResults(results))

	report := &models.ValidationReport{
		RequiredMetrics: make([]string, 0, len(requiredMetrics)),
		FoundMetrics:    []string{},
		MissingMetrics:  []string{},
	}

	for _, metric := range requiredMetrics {
		report.RequiredMetrics = append(report.RequiredMetrics, metric.name)

		if containsAny(text, metric.textKeywords) {
			report.FoundMetrics = append(report.FoundMetrics, metric.name)
			continue
		}
		if containsAny(serialized, metric.dataKeywords) {
			report.MissingMetrics = append(report.MissingMetrics, metric.name)
		}
	}

	report.CoveragePercent = float64(len(report.FoundMetrics)) / float64(len(requiredMetrics)) * 100
	report.Validated = len(report.MissingMetrics) == 0
	return report
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func serializeResults(results []models.ToolResult) string {
	var b strings.Builder
	for _, res := range results {
		data, err := json.Marshal(res.Data)
		if err != nil {
			continue
		}
		b.Write(data)
	}
	return b.String()
}

package assistant

import (
	"testing"

	"github.com/arialabs/aria/consts"
	"github.com/arialabs/aria/internal/models"
)

func quoteResult() models.ToolResult {
	return models.ToolResult{
		ToolID:  consts.ToolQuote,
		Success: true,
		Data: map[string]any{
			"symbol":            "AAPL",
			"price":             231.5,
			"change":            2.4,
			"changesPercentage": 1.05,
			"eps":               6.57,
			"pe":                35.2,
			"yearHigh":          260.1,
			"yearLow":           169.2,
		},
	}
}

func TestValidateFullCoverage(t *testing.T) {
	content := "AAPL cote 231,50 $ en hausse de 1,05 %. Le PER est de 35,2 pour un BPA de 6,57. " +
		"Sur 52 semaines, le titre a évolué entre 169,20 $ et 260,10 $."

	report := Validate(content, []models.ToolResult{quoteResult()})
	if !report.Validated {
		t.Fatalf("expected validated report, missing: %v", report.MissingMetrics)
	}
	if report.CoveragePercent != 100 {
		t.Fatalf("expected 100%% coverage, got %.0f", report.CoveragePercent)
	}
	if len(report.FoundMetrics) != len(report.RequiredMetrics) {
		t.Fatalf("expected all metrics found, got %v", report.FoundMetrics)
	}
}

func TestValidateMissingMetricWithDataSignal(t *testing.T) {
	// PER and EPS were in the payload but never surfaced in the text.
	content := "AAPL cote 231,50 $ en hausse de 1,05 %. Sur 52 semaines le titre oscille largement."

	report := Validate(content, []models.ToolResult{quoteResult()})
	if report.Validated {
		t.Fatalf("expected missing metrics to invalidate")
	}

	missing := map[string]bool{}
	for _, m := range report.MissingMetrics {
		missing[m] = true
	}
	if !missing["pe_ratio"] || !missing["eps"] {
		t.Fatalf("expected pe_ratio and eps missing, got %v", report.MissingMetrics)
	}
}

func TestValidateNoDataSignalIsNotPenalized(t *testing.T) {
	// News-only payload carries no quote signal: nothing can be missing.
	results := []models.ToolResult{{
		ToolID:  consts.ToolStockNews,
		Success: true,
		Data: []any{
			map[string]any{"title": "Apple unveils new chip", "site": "Reuters"},
		},
	}}

	report := Validate("Apple a présenté une nouvelle puce.", results)
	if !report.Validated {
		t.Fatalf("expected validated report without data signal, missing: %v", report.MissingMetrics)
	}
	if len(report.FoundMetrics) != 0 {
		t.Fatalf("expected no metrics found, got %v", report.FoundMetrics)
	}
	if report.CoveragePercent != 0 {
		t.Fatalf("expected 0%% coverage, got %.0f", report.CoveragePercent)
	}
}

func TestValidateEmptyResults(t *testing.T) {
	report := Validate("Je n'ai pas de données temps réel.", nil)
	if !report.Validated {
		t.Fatalf("expected validated report with no results")
	}
	if len(report.RequiredMetrics) != 5 {
		t.Fatalf("expected 5 required metrics, got %d", len(report.RequiredMetrics))
	}
}

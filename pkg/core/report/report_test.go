package report

import (
	"os"
	"strings"
	"testing"

	"stockpitch/pkg/core/analysis"
	"stockpitch/pkg/core/valuation"
	"stockpitch/pkg/models"
)

func sampleAnalysis() analysis.Analysis {
	return analysis.Analysis{
		Symbol:              "ACME",
		CompanyName:         "Acme Corp",
		CurrentPrice:        100,
		Recommendation:      analysis.Buy,
		TargetPrice:         115,
		UpsidePotential:     "15.0%",
		ValuationAssessment: "Moderately undervalued",
		RiskLevel:           "MODERATE RISK",
		InvestmentThesis:    "Acme Corp is a mid-cap stock with significant growth potential",
		SectorOutlook:       "Positive long-term growth driven by digital transformation",
		KeyHighlights:       []string{"Low P/E ratio of 14.0 suggests potential value"},
		Risks:               []string{"General market volatility"},
		Valuation: analysis.ValuationAnalysis{
			DCF: valuation.DCFResult{Result: valuation.Result{
				Status: valuation.StatusCompleted, FairValue: 118, Assessment: valuation.AssessUndervalued,
			}},
			WACC: valuation.WACCResult{WACC: 0.105, Interpretation: "Moderate cost of capital - typical for most companies"},
			Comparative: valuation.ComparativeResult{Result: valuation.Result{
				Status: valuation.StatusCompleted, FairValue: 112, Assessment: valuation.AssessUndervalued,
			}},
			WeightedFair: valuation.Blended{WeightedFairValue: 114.4, Confidence: 100},
			Assessment:   "Strong Undervaluation Signal",
		},
		Metrics: models.StockSnapshot{MarketCap: 5e9, PERatio: 14, EPS: 7.14, Beta: 1.1},
	}
}

func TestBuildPitch(t *testing.T) {
	p := BuildPitch(sampleAnalysis())

	if p.Symbol != "ACME" || p.Title != "ACME Stock Pitch" {
		t.Errorf("Unexpected deck header: %q / %q", p.Symbol, p.Title)
	}
	if len(p.Slides) != 5 {
		t.Fatalf("Expected 5 slides, got %d", len(p.Slides))
	}

	titles := []string{
		"Executive Summary",
		"Valuation Analysis",
		"Highlights & Risks",
		"Financial Metrics",
		"Investment Recommendation",
	}
	for i, want := range titles {
		if p.Slides[i].Title != want {
			t.Errorf("Slide %d: expected %q, got %q", i, want, p.Slides[i].Title)
		}
	}

	val := strings.Join(p.Slides[1].Body, "\n")
	if !strings.Contains(val, "DCF Fair Value: $118.00") {
		t.Errorf("Expected DCF line in valuation slide, got %q", val)
	}
	if !strings.Contains(val, "Blended Fair Value: $114.40 (confidence 100%)") {
		t.Errorf("Expected blended line in valuation slide, got %q", val)
	}

	rec := strings.Join(p.Slides[4].Body, "\n")
	if !strings.Contains(rec, "Recommendation: BUY") || !strings.Contains(rec, "Target Price: $115.00") {
		t.Errorf("Unexpected recommendation slide: %q", rec)
	}
}

func TestBuildPitchOmitsFailedMethods(t *testing.T) {
	a := sampleAnalysis()
	a.Valuation.DCF.Status = valuation.StatusInsufficientData
	a.Valuation.WeightedFair.Confidence = 0

	p := BuildPitch(a)
	val := strings.Join(p.Slides[1].Body, "\n")
	if strings.Contains(val, "DCF Fair Value") {
		t.Error("Expected incomplete DCF to be omitted")
	}
	if strings.Contains(val, "Blended Fair Value") {
		t.Error("Expected zero-confidence blend to be omitted")
	}
}

func TestRenderMarkdown(t *testing.T) {
	p := BuildPitch(sampleAnalysis())
	out := RenderMarkdown(p, "```markdown\n# Full Report\nDetails here.\n```")

	if !strings.HasPrefix(out, "# ACME Stock Pitch\n") {
		t.Errorf("Expected title heading, got %q", out[:40])
	}
	if !strings.Contains(out, "## Valuation Analysis") {
		t.Error("Expected slide headings")
	}
	if !strings.Contains(out, "## Appendix: Full Analysis") {
		t.Error("Expected narrative appendix")
	}
	// The appendix fence must be stripped.
	if strings.Contains(out, "```markdown") {
		t.Error("Expected code fence stripped from appendix")
	}
	if !strings.Contains(out, "# Full Report") {
		t.Error("Expected narrative content in appendix")
	}
}

func TestRenderMarkdownNoNarrative(t *testing.T) {
	out := RenderMarkdown(BuildPitch(sampleAnalysis()), "")
	if strings.Contains(out, "Appendix") {
		t.Error("Expected no appendix without a narrative")
	}
}

func TestMarkdownExporter(t *testing.T) {
	dir := t.TempDir()
	e := &MarkdownExporter{OutputDir: dir}

	path, err := e.Export(BuildPitch(sampleAnalysis()), "narrative text")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".md") {
		t.Errorf("Unexpected output path %q", path)
	}
	if !strings.Contains(path, "ACME_stock_pitch_") {
		t.Errorf("Expected symbol and timestamp in filename, got %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading exported file: %v", err)
	}
	if !strings.Contains(string(data), "# ACME Stock Pitch") {
		t.Error("Expected rendered deck in file")
	}
}

func TestHTMLExporter(t *testing.T) {
	dir := t.TempDir()
	e := &HTMLExporter{OutputDir: dir}

	path, err := e.Export(BuildPitch(sampleAnalysis()), "")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("Unexpected output path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading exported file: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("Expected standalone HTML document")
	}
	if !strings.Contains(html, "<title>ACME Stock Pitch</title>") {
		t.Error("Expected deck title in head")
	}
	if !strings.Contains(html, "<h1") {
		t.Error("Expected rendered markdown body")
	}
}

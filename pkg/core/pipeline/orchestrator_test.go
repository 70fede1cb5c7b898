package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"stockpitch/pkg/core/analysis"
	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/core/llm"
	"stockpitch/pkg/core/report"
	"stockpitch/pkg/models"
)

type fixtureFetcher struct {
	snap     models.StockSnapshot
	snapErr  error
	stmts    models.FinancialStatements
	stmtsErr error
	stmtCall bool
}

func (f *fixtureFetcher) FetchSnapshot(_ context.Context, symbol string) (models.StockSnapshot, error) {
	if f.snapErr != nil {
		return models.StockSnapshot{}, f.snapErr
	}
	s := f.snap
	s.Symbol = symbol
	return s, nil
}

func (f *fixtureFetcher) FetchStatements(context.Context, string) (models.FinancialStatements, error) {
	f.stmtCall = true
	return f.stmts, f.stmtsErr
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) GenerateResponse(context.Context, string, string, map[string]interface{}) (string, error) {
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func valueSnap() models.StockSnapshot {
	return models.StockSnapshot{
		CompanyName:  "Value Corp",
		CurrentPrice: 100,
		PERatio:      10,
		EPS:          5,
		MarketCap:    5e9,
		Beta:         1.0,
	}
}

func newTestOrchestrator(f SnapshotFetcher) *Orchestrator {
	return NewOrchestrator(f, analysis.NewEngine(zerolog.Nop()), zerolog.Nop())
}

func TestRunRuleBased(t *testing.T) {
	o := newTestOrchestrator(&fixtureFetcher{snap: valueSnap()})

	res, err := o.Run(context.Background(), "VAL", false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Premium {
		t.Error("Expected rule-based run")
	}
	if res.Analysis.Symbol != "VAL" {
		t.Errorf("Expected symbol VAL, got %q", res.Analysis.Symbol)
	}
	if res.Analysis.Recommendation != analysis.StrongBuy {
		t.Errorf("Expected STRONG BUY for P/E 10, got %s", res.Analysis.Recommendation)
	}
	if len(res.Pitch.Slides) == 0 {
		t.Error("Expected a built pitch deck")
	}
	if res.ReportPath != "" {
		t.Errorf("Expected no report path without an exporter, got %q", res.ReportPath)
	}
}

func TestRunFetchFailure(t *testing.T) {
	o := newTestOrchestrator(&fixtureFetcher{snapErr: errors.New("symbol not found")})

	if _, err := o.Run(context.Background(), "NOPE", false); err == nil {
		t.Error("Expected error when the fetch fails")
	}
}

func TestRunPremium(t *testing.T) {
	fetcher := &fixtureFetcher{snap: valueSnap()}
	o := newTestOrchestrator(fetcher)
	o.SetAnalyst(llm.NewAnalyst(&stubProvider{
		response: `{"analysis": "model text", "recommendation": "BUY", "target_price": 130}`,
	}, zerolog.Nop()))

	res, err := o.Run(context.Background(), "VAL", true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.Premium {
		t.Error("Expected premium result")
	}
	if !fetcher.stmtCall {
		t.Error("Expected statements to be fetched for the premium path")
	}
	if res.Analysis.Recommendation != analysis.Buy || res.Analysis.TargetPrice != 130 {
		t.Errorf("Expected merged verdict (BUY, 130), got (%s, %f)",
			res.Analysis.Recommendation, res.Analysis.TargetPrice)
	}
	if res.Analysis.AnalysisType != "AI-Enhanced Analysis" {
		t.Errorf("Unexpected analysis type %q", res.Analysis.AnalysisType)
	}
}

func TestRunPremiumDegrades(t *testing.T) {
	fetcher := &fixtureFetcher{snap: valueSnap(), stmtsErr: errors.New("throttled")}
	o := newTestOrchestrator(fetcher)
	o.SetAnalyst(llm.NewAnalyst(&stubProvider{err: errors.New("model down")}, zerolog.Nop()))

	res, err := o.Run(context.Background(), "VAL", true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Premium {
		t.Error("Expected degradation to the rule-based result")
	}
	if res.Analysis.AnalysisType != "Rule-based Fundamental Analysis" {
		t.Errorf("Unexpected analysis type %q", res.Analysis.AnalysisType)
	}
}

func TestRunPremiumWithoutAnalyst(t *testing.T) {
	fetcher := &fixtureFetcher{snap: valueSnap()}
	o := newTestOrchestrator(fetcher)

	res, err := o.Run(context.Background(), "VAL", true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Premium {
		t.Error("Expected premium to be skipped without an analyst")
	}
	if fetcher.stmtCall {
		t.Error("Expected no statement fetch without an analyst")
	}
}

func TestRunWithOverrides(t *testing.T) {
	o := newTestOrchestrator(&fixtureFetcher{snap: valueSnap()})
	pe := 30.0
	o.SetOverrides(&assumption.Overrides{IndustryPE: &pe})

	res, err := o.Run(context.Background(), "VAL", false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Comparative P/E estimate becomes EPS*30 = 150 instead of 100.
	got := res.Analysis.Valuation.Comparative.PEEstimate
	if got == nil || got.FairValue != 150 {
		t.Errorf("Expected overridden P/E fair value 150, got %+v", got)
	}
}

func TestRunRejectsBrokenOverrides(t *testing.T) {
	o := newTestOrchestrator(&fixtureFetcher{snap: valueSnap()})
	r := 0.01
	o.SetOverrides(&assumption.Overrides{DiscountRate: &r})

	if _, err := o.Run(context.Background(), "VAL", false); err == nil {
		t.Error("Expected error for overrides breaking the discount/terminal invariant")
	}
}

func TestRunExports(t *testing.T) {
	o := newTestOrchestrator(&fixtureFetcher{snap: valueSnap()})
	o.SetExporter(&report.MarkdownExporter{OutputDir: t.TempDir()})

	res, err := o.Run(context.Background(), "VAL", false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ReportPath == "" || !strings.HasSuffix(res.ReportPath, ".md") {
		t.Errorf("Expected a markdown report path, got %q", res.ReportPath)
	}
}

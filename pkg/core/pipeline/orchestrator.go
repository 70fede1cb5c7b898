// Package pipeline wires the end-to-end flow: fetch market data, run the
// rule-based engine, optionally enhance with a model, persist, export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"stockpitch/pkg/core/analysis"
	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/core/llm"
	"stockpitch/pkg/core/report"
	"stockpitch/pkg/core/store"
	"stockpitch/pkg/models"
)

// SnapshotFetcher is what the orchestrator needs from the data layer.
// marketdata.Fetcher implements it; tests substitute a fixture.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, symbol string) (models.StockSnapshot, error)
	FetchStatements(ctx context.Context, symbol string) (models.FinancialStatements, error)
}

// Orchestrator runs the full pitch pipeline for one symbol at a time.
type Orchestrator struct {
	fetcher   SnapshotFetcher
	engine    *analysis.Engine
	analyst   *llm.Analyst // nil disables the premium path
	repo      *store.AnalysisRepo
	exporter  report.SlideExporter
	overrides *assumption.Overrides
	log       zerolog.Logger
}

func NewOrchestrator(fetcher SnapshotFetcher, engine *analysis.Engine, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		engine:  engine,
		log:     log.With().Str("component", "pipeline").Logger(),
	}
}

// SetAnalyst enables the premium model path.
func (o *Orchestrator) SetAnalyst(a *llm.Analyst) { o.analyst = a }

// SetRepo enables persistence. Saving is best-effort: a failed save logs
// and the result is still returned.
func (o *Orchestrator) SetRepo(r *store.AnalysisRepo) { o.repo = r }

// SetExporter enables pitch export.
func (o *Orchestrator) SetExporter(e report.SlideExporter) { o.exporter = e }

// SetOverrides applies user assumption overrides to every run.
func (o *Orchestrator) SetOverrides(ov *assumption.Overrides) { o.overrides = ov }

// Result is everything one run produced.
type Result struct {
	Analysis   analysis.Analysis `json:"analysis"`
	Pitch      report.Pitch      `json:"pitch"`
	ReportPath string            `json:"report_path,omitempty"`
	Premium    bool              `json:"premium"`
}

// Run executes the pipeline for a symbol. Premium is attempted only when
// requested and an analyst is configured; any model failure degrades to the
// rule-based result.
func (o *Orchestrator) Run(ctx context.Context, symbol string, premium bool) (*Result, error) {
	start := time.Now()

	snap, err := o.fetcher.FetchSnapshot(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching data for %s: %w", symbol, err)
	}

	as := assumption.ForMarketCap(snap.MarketCap)
	if o.overrides != nil {
		as, err = o.overrides.Apply(as)
		if err != nil {
			return nil, fmt.Errorf("applying assumption overrides: %w", err)
		}
	}

	a := o.engine.Analyze(snap, as)

	usedPremium := false
	if premium && o.analyst != nil {
		stmts, err := o.fetcher.FetchStatements(ctx, symbol)
		if err != nil {
			o.log.Warn().Err(err).Str("symbol", symbol).Msg("statements unavailable, prompting without them")
		}
		a, usedPremium = o.analyst.Enhance(ctx, snap, stmts, a)
	}

	res := &Result{
		Analysis: a,
		Pitch:    report.BuildPitch(a),
		Premium:  usedPremium,
	}

	if o.repo != nil {
		if err := o.repo.Save(ctx, &a); err != nil {
			o.log.Warn().Err(err).Str("symbol", symbol).Msg("persisting analysis failed")
		}
	}

	if o.exporter != nil {
		path, err := o.exporter.Export(res.Pitch, a.Narrative)
		if err != nil {
			o.log.Warn().Err(err).Str("symbol", symbol).Msg("pitch export failed")
		} else {
			res.ReportPath = path
		}
	}

	o.log.Info().
		Str("symbol", symbol).
		Bool("premium", usedPremium).
		Str("recommendation", string(a.Recommendation)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline completed")
	return res, nil
}

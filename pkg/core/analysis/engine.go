package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/core/valuation"
	"stockpitch/pkg/models"
)

// Engine produces rule-based analyses. It is stateless apart from its
// logger and safe for concurrent use.
type Engine struct {
	log zerolog.Logger
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "analysis").Logger()}
}

// Analyze runs the full rule-based pipeline for one snapshot: assumptions
// from the market-cap tier, the three valuation methods, the blended fair
// value, the recommendation with its DCF adjustment, and the narrative
// sections. It always returns a usable Analysis; inputs too sparse to value
// fall through to fair-value/HOLD defaults rather than an error, and a
// panic anywhere in the pipeline is replaced by a minimal HOLD analysis.
func (e *Engine) Analyze(snap models.StockSnapshot, as assumption.Set) (result Analysis) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("symbol", snap.Symbol).Msg("analysis failed, returning fallback")
			result = fallbackAnalysis(snap)
		}
	}()

	start := time.Now()

	dcf := valuation.CalculateDCF(snap, as)
	wacc := valuation.CalculateWACC(snap, as)
	comp := valuation.CalculateComparative(snap, as)
	blended := valuation.Blend(dcf, comp, snap.CurrentPrice)
	statements := scoreStatements(snap)
	statements.Method = "Financial Statement Analysis"
	statements.Status = valuation.StatusCompleted

	base := baseRecommendation(snap.PERatio)
	baseTarget := snap.CurrentPrice * base.TargetFactor
	rec, target := adjustForDCF(base.Recommendation, baseTarget, dcf)

	a := Analysis{
		ID:           uuid.NewString(),
		Symbol:       snap.Symbol,
		CompanyName:  snap.CompanyName,
		AnalysisDate: time.Now().UTC(),
		AnalysisType: "Rule-based Fundamental Analysis",

		CurrentPrice:        snap.CurrentPrice,
		BaseRecommendation:  base.Recommendation,
		BaseTargetPrice:     round2(baseTarget),
		Recommendation:      rec,
		TargetPrice:         round2(target),
		ValuationAssessment: base.Valuation,
		UpsidePotential:     upsideLabel(target, snap.CurrentPrice),
		InvestmentHorizon:   "12 months",
		RiskLevel:           riskLevel(snap),

		InvestmentThesis:    investmentThesis(snap, base.Valuation, rec),
		SectorOutlook:       sectorOutlook(snap.Sector),
		CompetitivePosition: competitivePosition(snap.MarketCap),
		FinancialStrength:   financialStrength(snap),
		GrowthProspects:     growthProspects(snap),
		KeyHighlights:       keyHighlights(snap),
		Risks:               riskFlags(snap),
		Catalysts:           catalysts(snap),

		Ratios:           assessRatios(snap),
		PricePerformance: pricePerformance(snap),
		Valuation: ValuationAnalysis{
			CurrentPrice: snap.CurrentPrice,
			DCF:          dcf,
			WACC:         wacc,
			Comparative:  comp,
			Statements:   statements,
			WeightedFair: blended,
			Assessment:   valuation.OverallAssessment(dcf, comp),
		},
		Metrics: snap,
	}
	a.Narrative = buildNarrative(snap, a)

	e.log.Info().
		Str("symbol", snap.Symbol).
		Str("recommendation", string(rec)).
		Float64("target_price", a.TargetPrice).
		Float64("dcf_fair_value", dcf.FairValue).
		Float64("blended_fair_value", blended.WeightedFairValue).
		Dur("elapsed", time.Since(start)).
		Msg("analysis completed")

	return a
}

// fallbackAnalysis is the minimal record returned when the pipeline itself
// fails. HOLD at the current price, no narrative sections.
func fallbackAnalysis(snap models.StockSnapshot) Analysis {
	return Analysis{
		ID:           uuid.NewString(),
		Symbol:       snap.Symbol,
		CompanyName:  snap.CompanyName,
		AnalysisDate: time.Now().UTC(),
		AnalysisType: "Rule-based Fundamental Analysis",

		CurrentPrice:        snap.CurrentPrice,
		Recommendation:      Hold,
		TargetPrice:         snap.CurrentPrice,
		ValuationAssessment: "Unable to determine valuation",
		UpsidePotential:     "N/A",
		InvestmentHorizon:   "12 months",
		RiskLevel:           "Unknown",
		InvestmentThesis:    "Limited analysis available for this symbol.",
		Metrics:             snap,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func upsideLabel(target, currentPrice float64) string {
	if target <= 0 || currentPrice <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", (target-currentPrice)/currentPrice*100)
}

// buildNarrative renders the analysis as a markdown report. The premium
// path replaces this text with model output; the structure here is the
// fallback every run can count on.
func buildNarrative(snap models.StockSnapshot, a Analysis) string {
	var b strings.Builder

	name := snap.CompanyName
	if name == "" {
		name = snap.Symbol
	}

	fmt.Fprintf(&b, "# %s (%s) - Investment Analysis\n\n", name, snap.Symbol)

	fmt.Fprintf(&b, "## Executive Summary\n")
	fmt.Fprintf(&b, "%s presents a %s opportunity with our 12-month price target of $%.2f, representing %s potential upside from current levels.\n\n",
		name, strings.ToLower(string(a.Recommendation)), a.TargetPrice, a.UpsidePotential)

	fmt.Fprintf(&b, "## Current Market Position\n")
	fmt.Fprintf(&b, "- **Current Price**: $%.2f\n", snap.CurrentPrice)
	fmt.Fprintf(&b, "- **Market Capitalization**: %s\n", FormatMarketCap(snap.MarketCap))
	fmt.Fprintf(&b, "- **P/E Ratio**: %.2fx\n", snap.PERatio)
	fmt.Fprintf(&b, "- **Risk Level**: %s\n\n", a.RiskLevel)

	fmt.Fprintf(&b, "## Valuation Assessment\n")
	fmt.Fprintf(&b, "Our analysis indicates the stock is **%s** based on:\n", strings.ToLower(a.ValuationAssessment))
	fmt.Fprintf(&b, "- Price-to-earnings ratio of %.2fx vs sector average\n", snap.PERatio)
	fmt.Fprintf(&b, "- %s\n", a.FinancialStrength)
	fmt.Fprintf(&b, "- %s\n\n", a.CompetitivePosition)

	if a.Valuation.DCF.Completed() {
		fmt.Fprintf(&b, "- DCF fair value estimate: $%.2f (%s)\n", a.Valuation.DCF.FairValue, a.Valuation.DCF.Assessment)
	}
	if a.Valuation.WeightedFair.Confidence > 0 {
		fmt.Fprintf(&b, "- Blended fair value: $%.2f (confidence %.0f%%)\n\n",
			a.Valuation.WeightedFair.WeightedFairValue, a.Valuation.WeightedFair.Confidence)
	}

	fmt.Fprintf(&b, "## Investment Thesis\n%s\n\n", a.InvestmentThesis)

	fmt.Fprintf(&b, "## Key Investment Highlights\n")
	fmt.Fprintf(&b, "- **Recommendation**: %s\n", a.Recommendation)
	fmt.Fprintf(&b, "- **Price Target**: $%.2f (12-month)\n", a.TargetPrice)
	fmt.Fprintf(&b, "- **Investment Horizon**: %s\n", a.InvestmentHorizon)
	fmt.Fprintf(&b, "- **Sector Outlook**: %s\n\n", a.SectorOutlook)

	fmt.Fprintf(&b, "## Financial Metrics Summary\n")
	fmt.Fprintf(&b, "- **Beta**: %.2f (%s)\n", snap.Beta, interpretBeta(snap.Beta))
	fmt.Fprintf(&b, "- **Dividend Yield**: %.2f%%\n", snap.DividendYield*100)
	fmt.Fprintf(&b, "- **52-Week Range**: $%.2f - $%.2f\n\n", snap.Low52W, snap.High52W)

	fmt.Fprintf(&b, "## Growth Prospects\n%s\n\n", a.GrowthProspects)

	fmt.Fprintf(&b, "## Risk Assessment\n")
	fmt.Fprintf(&b, "- **Overall Risk Level**: %s\n", a.RiskLevel)
	for _, r := range a.Risks {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Analyst Recommendation\n")
	fmt.Fprintf(&b, "**%s** - Based on fundamental analysis of financial metrics, valuation parameters, and market positioning.\n", a.Recommendation)

	return b.String()
}

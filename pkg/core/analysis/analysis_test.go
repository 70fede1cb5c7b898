package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/core/valuation"
	"stockpitch/pkg/models"
)

func TestBaseRecommendationBands(t *testing.T) {
	cases := []struct {
		pe        float64
		rec       Recommendation
		valuation string
		factor    float64
	}{
		{10, StrongBuy, "Significantly undervalued", 1.25},
		{15, Buy, "Moderately undervalued", 1.15},
		{20, Hold, "Fair value", 1.05},
		{30, Hold, "Moderately overvalued", 0.95},
		{40, Sell, "Significantly overvalued", 0.85},
		{0, Hold, "Fair value", 1.05}, // missing P/E
	}
	for _, c := range cases {
		got := baseRecommendation(c.pe)
		if got.Recommendation != c.rec {
			t.Errorf("P/E %.0f: expected %s, got %s", c.pe, c.rec, got.Recommendation)
		}
		if got.Valuation != c.valuation {
			t.Errorf("P/E %.0f: expected valuation %q, got %q", c.pe, c.valuation, got.Valuation)
		}
		if got.TargetFactor != c.factor {
			t.Errorf("P/E %.0f: expected factor %f, got %f", c.pe, c.factor, got.TargetFactor)
		}
	}
}

func TestAdjustForDCFEscalation(t *testing.T) {
	completed := func(assessment string, fair float64) valuation.DCFResult {
		return valuation.DCFResult{Result: valuation.Result{
			Status:     valuation.StatusCompleted,
			Assessment: assessment,
			FairValue:  fair,
		}}
	}

	// A strongly undervalued DCF escalates HOLD all the way to STRONG BUY
	// and raises the target to 90% of fair value.
	rec, target := adjustForDCF(Hold, 105, completed(valuation.AssessSignificantlyUndervalued, 150))
	if rec != StrongBuy {
		t.Errorf("Expected STRONG BUY, got %s", rec)
	}
	if target != 135 { // max(105, 150*0.90)
		t.Errorf("Expected target raised to 135, got %f", target)
	}

	// An undervalued DCF softens SELL to HOLD.
	rec, _ = adjustForDCF(Sell, 42.5, completed(valuation.AssessUndervalued, 60))
	if rec != Hold {
		t.Errorf("Expected HOLD, got %s", rec)
	}

	// Fair value leaves everything untouched.
	rec, target = adjustForDCF(Buy, 115, completed(valuation.AssessFairValue, 100))
	if rec != Buy || target != 115 {
		t.Errorf("Expected (BUY, 115) unchanged, got (%s, %f)", rec, target)
	}

	// An overvalued DCF downgrades BUY to HOLD and caps the target at 105%
	// of fair value.
	rec, target = adjustForDCF(Buy, 115, completed(valuation.AssessOvervalued, 90))
	if rec != Hold {
		t.Errorf("Expected HOLD, got %s", rec)
	}
	if math.Abs(target-94.5) > 0.0001 { // min(115, 90*1.05)
		t.Errorf("Expected target capped at 94.5, got %f", target)
	}

	// Significantly overvalued sends HOLD to SELL.
	rec, _ = adjustForDCF(Hold, 105, completed(valuation.AssessSignificantlyOvervalued, 60))
	if rec != Sell {
		t.Errorf("Expected SELL, got %s", rec)
	}
}

func TestAdjustForDCFNeverDowngradesStrongBuy(t *testing.T) {
	// The sub-12 P/E call survives every DCF assessment; only the target
	// price is tempered.
	for _, assessment := range []string{
		valuation.AssessSignificantlyUndervalued,
		valuation.AssessUndervalued,
		valuation.AssessFairValue,
		valuation.AssessOvervalued,
		valuation.AssessSignificantlyOvervalued,
	} {
		dcf := valuation.DCFResult{Result: valuation.Result{
			Status:     valuation.StatusCompleted,
			Assessment: assessment,
			FairValue:  80,
		}}
		rec, _ := adjustForDCF(StrongBuy, 125, dcf)
		if rec != StrongBuy {
			t.Errorf("%s: expected STRONG BUY retained, got %s", assessment, rec)
		}
	}
}

func TestAdjustForDCFIncomplete(t *testing.T) {
	dcf := valuation.DCFResult{Result: valuation.Result{
		Status:     valuation.StatusInsufficientData,
		Assessment: valuation.AssessUnableToCalculate,
	}}
	rec, target := adjustForDCF(Sell, 42.5, dcf)
	if rec != Sell || target != 42.5 {
		t.Errorf("Expected incomplete DCF to leave (SELL, 42.5), got (%s, %f)", rec, target)
	}
}

func TestScoreStatementsHandCalculation(t *testing.T) {
	// Large established company:
	//   EPS 6 (>0: +3, >2: +2), P/E 18 (<25: +2)          => profitability 7
	//   cap 50B (>10B)                                     => liquidity 5
	//   yield 3.5% (>3%: 3) + cap>10B (+2)                 => leverage 5
	//   P/E<20 (+3), beta 1.0 in [0.8,1.2] (+2)            => efficiency 5
	//   P/E<25 (+2), P/B 1.8 <2 (+2)                       => valuation 4
	//   P/E 18 >15 (+1), cap in [10B,50B)? 50B is not <50B => growth 1
	snap := models.StockSnapshot{
		EPS:           6,
		PERatio:       18,
		PBRatio:       1.8,
		Beta:          1.0,
		DividendYield: 0.035,
		MarketCap:     50e9,
	}
	s := scoreStatements(snap)

	if s.Profitability != 7 {
		t.Errorf("Expected profitability 7, got %d", s.Profitability)
	}
	if s.Liquidity != 5 {
		t.Errorf("Expected liquidity 5, got %d", s.Liquidity)
	}
	if s.Leverage != 5 {
		t.Errorf("Expected leverage 5, got %d", s.Leverage)
	}
	if s.Efficiency != 5 {
		t.Errorf("Expected efficiency 5, got %d", s.Efficiency)
	}
	if s.Valuation != 4 {
		t.Errorf("Expected valuation 4, got %d", s.Valuation)
	}
	if s.Growth != 1 {
		t.Errorf("Expected growth 1, got %d", s.Growth)
	}
	if s.Overall != 27 {
		t.Errorf("Expected overall 27, got %d", s.Overall)
	}
	if s.Grade != "A+ (Excellent)" {
		t.Errorf("Expected A+ grade, got %q", s.Grade)
	}
	if !strings.Contains(s.Summary, "Score: 27/24") {
		t.Errorf("Expected score in summary, got %q", s.Summary)
	}
}

func TestFinancialGradeBoundaries(t *testing.T) {
	cases := []struct {
		score int
		grade string
	}{
		{20, "A+ (Excellent)"},
		{19, "A (Very Good)"},
		{14, "B+ (Good)"},
		{11, "B (Above Average)"},
		{8, "C+ (Average)"},
		{5, "C (Below Average)"},
		{4, "D (Poor)"},
		{0, "D (Poor)"},
	}
	for _, c := range cases {
		if got := financialGrade(c.score); got != c.grade {
			t.Errorf("Score %d: expected %q, got %q", c.score, c.grade, got)
		}
	}
}

func TestAssessRatios(t *testing.T) {
	snap := models.StockSnapshot{
		PERatio:       12,
		PBRatio:       1.2,
		DividendYield: 0.04,
		Beta:          0.7,
	}
	r := assessRatios(snap)

	if r.PEAssessment != "Low (Potentially undervalued)" {
		t.Errorf("Unexpected P/E assessment %q", r.PEAssessment)
	}
	if r.PBAssessment != "Low" {
		t.Errorf("Unexpected P/B assessment %q", r.PBAssessment)
	}
	if r.DividendAssessment != "High" {
		t.Errorf("Unexpected dividend assessment %q", r.DividendAssessment)
	}
	if r.BetaAssessment != "Low volatility (Defensive)" {
		t.Errorf("Unexpected beta assessment %q", r.BetaAssessment)
	}

	// Zero fields produce no assessment at all.
	empty := assessRatios(models.StockSnapshot{})
	if empty.PEAssessment != "" || empty.BetaAssessment != "" {
		t.Errorf("Expected empty assessments for zero snapshot, got %+v", empty)
	}
}

func TestRiskLevel(t *testing.T) {
	// Beta 1.6 (+2), P/E 45 (+2), cap 1B (+2) => 6 factors => HIGH RISK.
	high := riskLevel(models.StockSnapshot{Beta: 1.6, PERatio: 45, MarketCap: 1e9})
	if high != "HIGH RISK" {
		t.Errorf("Expected HIGH RISK, got %q", high)
	}

	// Beta 1.3 (+1), P/E 28 (+1), cap 50B (0) => 2 factors => MODERATE RISK.
	mod := riskLevel(models.StockSnapshot{Beta: 1.3, PERatio: 28, MarketCap: 50e9})
	if mod != "MODERATE RISK" {
		t.Errorf("Expected MODERATE RISK, got %q", mod)
	}

	low := riskLevel(models.StockSnapshot{Beta: 1.0, PERatio: 18, MarketCap: 50e9})
	if low != "LOW RISK" {
		t.Errorf("Expected LOW RISK, got %q", low)
	}
}

func TestPricePerformance(t *testing.T) {
	// Range 80..120, price 110: 37.5% above low, 8.33% below high,
	// position (110-80)/(120-80) = 0.75.
	perf := pricePerformance(models.StockSnapshot{CurrentPrice: 110, Low52W: 80, High52W: 120})
	if !perf.HasRange {
		t.Fatal("Expected range to be recognized")
	}
	if math.Abs(perf.FromLowPct-37.5) > 0.0001 {
		t.Errorf("Expected 37.5%% from low, got %f", perf.FromLowPct)
	}
	if math.Abs(perf.RangePosition-0.75) > 0.0001 {
		t.Errorf("Expected range position 0.75, got %f", perf.RangePosition)
	}

	none := pricePerformance(models.StockSnapshot{CurrentPrice: 110})
	if none.HasRange {
		t.Error("Expected no range without 52-week data")
	}
}

func TestFormatMarketCap(t *testing.T) {
	cases := []struct {
		cap      float64
		expected string
	}{
		{2.5e12, "$2.5T"},
		{350e9, "$350.0B"},
		{5e6, "$5.0M"},
		{0, "$0"},
	}
	for _, c := range cases {
		if got := FormatMarketCap(c.cap); got != c.expected {
			t.Errorf("FormatMarketCap(%g): expected %q, got %q", c.cap, c.expected, got)
		}
	}
}

func TestAnalyzeValueScenario(t *testing.T) {
	// Small-cap value stock: P/E 10 puts the base call at STRONG BUY with a
	// 1.25x target (125). Small-tier assumptions are g=12%, r=12%, gt=4%:
	// growth and discount cancel, so sum PV = 5*5 = 25 and terminal PV
	// collapses to EPS*1.04/0.08 = 65, giving a DCF fair value of 90.
	// 90/100 = 0.90 reads Overvalued, which keeps STRONG BUY but caps the
	// target at 90*1.05 = 94.50.
	snap := models.StockSnapshot{
		Symbol:        "VAL",
		CompanyName:   "Value Corp",
		CurrentPrice:  100,
		PERatio:       10,
		EPS:           5,
		MarketCap:     5e9,
		Beta:          1.0,
		DividendYield: 0,
	}
	eng := NewEngine(zerolog.Nop())
	a := eng.Analyze(snap, assumption.ForMarketCap(snap.MarketCap))

	if a.BaseRecommendation != StrongBuy {
		t.Errorf("Expected base STRONG BUY, got %s", a.BaseRecommendation)
	}
	if a.BaseTargetPrice != 125 {
		t.Errorf("Expected base target 125, got %f", a.BaseTargetPrice)
	}
	if a.ValuationAssessment != "Significantly undervalued" {
		t.Errorf("Unexpected valuation label %q", a.ValuationAssessment)
	}
	if math.Abs(a.Valuation.DCF.FairValue-90) > 0.0001 {
		t.Errorf("Expected DCF fair value 90, got %f", a.Valuation.DCF.FairValue)
	}
	if a.Valuation.DCF.Assessment != valuation.AssessOvervalued {
		t.Errorf("Expected DCF assessment Overvalued, got %q", a.Valuation.DCF.Assessment)
	}
	if a.Recommendation != StrongBuy {
		t.Errorf("Expected final STRONG BUY, got %s", a.Recommendation)
	}
	if a.TargetPrice != 94.5 {
		t.Errorf("Expected capped target 94.50, got %f", a.TargetPrice)
	}
	if a.Narrative == "" || !strings.Contains(a.Narrative, "Value Corp") {
		t.Error("Expected narrative mentioning the company")
	}
}

func TestAnalyzeOverheatedSmallCap(t *testing.T) {
	// P/E 40 with no reported EPS: the base call is SELL with target
	// 50*0.85 = 42.50, and the DCF cannot complete, so the target stands.
	snap := models.StockSnapshot{
		Symbol:       "HOT",
		CurrentPrice: 50,
		PERatio:      40,
		MarketCap:    1e9,
	}
	eng := NewEngine(zerolog.Nop())
	a := eng.Analyze(snap, assumption.ForMarketCap(snap.MarketCap))

	if a.Recommendation != Sell {
		t.Errorf("Expected SELL, got %s", a.Recommendation)
	}
	if a.TargetPrice != 42.5 {
		t.Errorf("Expected target 42.50, got %f", a.TargetPrice)
	}

	wantRisks := []string{
		"High P/E ratio suggests elevated valuation risk",
		"Small market cap increases liquidity and volatility risks",
	}
	for _, want := range wantRisks {
		found := false
		for _, r := range a.Risks {
			if r == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected risk flag %q in %v", want, a.Risks)
		}
	}
}

func TestAnalyzeSparseSnapshot(t *testing.T) {
	// Nothing but a price: every calculator degrades but the analysis still
	// comes back complete with HOLD defaults.
	snap := models.StockSnapshot{Symbol: "X", CurrentPrice: 10}
	eng := NewEngine(zerolog.Nop())
	a := eng.Analyze(snap, assumption.ForMarketCap(0))

	if a.Recommendation != Hold {
		t.Errorf("Expected HOLD for sparse input, got %s", a.Recommendation)
	}
	if a.Valuation.WeightedFair.Confidence != 0 {
		t.Errorf("Expected zero confidence, got %f", a.Valuation.WeightedFair.Confidence)
	}
	if a.Valuation.Assessment != "Unable to determine valuation" {
		t.Errorf("Unexpected overall assessment %q", a.Valuation.Assessment)
	}
	if a.ID == "" {
		t.Error("Expected a generated analysis ID")
	}
	if len(a.KeyHighlights) == 0 || len(a.Risks) == 0 || len(a.Catalysts) == 0 {
		t.Error("Expected fallback highlights, risks, and catalysts")
	}
}

func TestFallbackAnalysis(t *testing.T) {
	snap := models.StockSnapshot{Symbol: "X", CompanyName: "X Corp", CurrentPrice: 42}
	a := fallbackAnalysis(snap)

	if a.Recommendation != Hold {
		t.Errorf("Expected HOLD, got %s", a.Recommendation)
	}
	if a.TargetPrice != 42 || a.CurrentPrice != 42 {
		t.Errorf("Expected target pinned to the price, got target %f price %f", a.TargetPrice, a.CurrentPrice)
	}
	if a.ValuationAssessment != "Unable to determine valuation" {
		t.Errorf("Unexpected assessment %q", a.ValuationAssessment)
	}
	if a.UpsidePotential != "N/A" {
		t.Errorf("Expected N/A upside, got %q", a.UpsidePotential)
	}
	if a.ID == "" {
		t.Error("Expected a generated analysis ID")
	}
	if a.Symbol != "X" || a.CompanyName != "X Corp" {
		t.Errorf("Expected snapshot identity carried over, got %s / %s", a.Symbol, a.CompanyName)
	}
}

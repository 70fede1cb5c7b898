package analysis

import (
	"stockpitch/pkg/core/valuation"
)

// baseCall is the first-pass recommendation derived purely from the P/E band.
type baseCall struct {
	Recommendation Recommendation
	Valuation      string
	TargetFactor   float64
}

// baseRecommendation maps the trailing P/E onto a rating band and a 12-month
// target as a multiple of the current price. A missing P/E lands in the
// fair-value band.
func baseRecommendation(peRatio float64) baseCall {
	switch {
	case peRatio > 0 && peRatio < 12:
		return baseCall{StrongBuy, "Significantly undervalued", 1.25}
	case peRatio > 0 && peRatio < 18:
		return baseCall{Buy, "Moderately undervalued", 1.15}
	case peRatio > 35:
		return baseCall{Sell, "Significantly overvalued", 0.85}
	case peRatio > 25:
		return baseCall{Hold, "Moderately overvalued", 0.95}
	default:
		return baseCall{Hold, "Fair value", 1.05}
	}
}

// dcfAdjustment is one row of the escalation table: the label transition for
// each base recommendation plus the target-price clamp against the DCF fair
// value. raiseTo/capTo are fractions of the DCF fair value; zero means no
// clamp in that direction.
type dcfAdjustment struct {
	next    map[Recommendation]Recommendation
	raiseTo float64
	capTo   float64
}

// dcfAdjustments spells out every (DCF assessment, base recommendation)
// combination explicitly. "Fair Value" rows leave the call unchanged, and a
// STRONG BUY is never downgraded: the sub-12 P/E signal is the strongest
// value input, so a disagreeing DCF tempers the target price but not the
// label.
var dcfAdjustments = map[string]dcfAdjustment{
	valuation.AssessSignificantlyUndervalued: {
		next: map[Recommendation]Recommendation{
			StrongBuy: StrongBuy,
			Buy:       StrongBuy,
			Hold:      StrongBuy,
			Sell:      Hold,
		},
		raiseTo: 0.90,
	},
	valuation.AssessUndervalued: {
		next: map[Recommendation]Recommendation{
			StrongBuy: StrongBuy,
			Buy:       Buy,
			Hold:      Buy,
			Sell:      Hold,
		},
		raiseTo: 0.95,
	},
	valuation.AssessFairValue: {
		next: map[Recommendation]Recommendation{
			StrongBuy: StrongBuy,
			Buy:       Buy,
			Hold:      Hold,
			Sell:      Sell,
		},
	},
	valuation.AssessOvervalued: {
		next: map[Recommendation]Recommendation{
			StrongBuy: StrongBuy,
			Buy:       Hold,
			Hold:      Hold,
			Sell:      Sell,
		},
		capTo: 1.05,
	},
	valuation.AssessSignificantlyOvervalued: {
		next: map[Recommendation]Recommendation{
			StrongBuy: StrongBuy,
			Buy:       Hold,
			Hold:      Sell,
			Sell:      Sell,
		},
		capTo: 1.10,
	},
}

// adjustForDCF applies the escalation table. A DCF that did not complete, or
// an assessment with no table row, leaves the base call untouched.
func adjustForDCF(base Recommendation, target float64, dcf valuation.DCFResult) (Recommendation, float64) {
	if !dcf.Completed() {
		return base, target
	}
	row, ok := dcfAdjustments[dcf.Assessment]
	if !ok {
		return base, target
	}

	next, ok := row.next[base]
	if !ok {
		next = base
	}
	if row.raiseTo > 0 {
		target = max(target, dcf.FairValue*row.raiseTo)
	}
	if row.capTo > 0 {
		target = min(target, dcf.FairValue*row.capTo)
	}
	return next, target
}

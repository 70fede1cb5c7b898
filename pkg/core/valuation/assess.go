// Package valuation implements the per-method fair-value calculators (DCF,
// WACC, comparative multiples) and the weighted blend of their estimates.
// All calculators are total functions: degenerate inputs produce a marked
// degenerate result, never an error.
package valuation

// Assessment labels shared by every method.
const (
	AssessSignificantlyUndervalued = "Significantly Undervalued"
	AssessUndervalued              = "Undervalued"
	AssessFairValue                = "Fair Value"
	AssessOvervalued               = "Overvalued"
	AssessSignificantlyOvervalued  = "Significantly Overvalued"
	AssessUnableToCalculate        = "Unable to calculate"
	AssessUnableToDetermine        = "Unable to determine"
)

// Result statuses.
const (
	StatusCompleted        = "Completed"
	StatusInsufficientData = "Insufficient data"
)

// Classification thresholds as ratios of fair value to current price.
const (
	sigUndervaluedRatio = 1.15
	undervaluedRatio    = 1.05
	overvaluedRatio     = 0.95
	sigOvervaluedRatio  = 0.85
)

// Result is the common output record of one valuation method.
type Result struct {
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	FairValue     float64 `json:"fair_value"`
	CurrentPrice  float64 `json:"current_price"`
	UpsidePercent float64 `json:"upside_percent"`
	Assessment    string  `json:"assessment"`
}

// Completed reports whether the method produced a usable estimate.
func (r Result) Completed() bool {
	return r.Status == StatusCompleted
}

// Classify maps a fair value against the current price onto the five
// assessment bands. The extremes are checked first so that a ratio of e.g.
// 0.80 lands in "Significantly Overvalued" rather than "Overvalued".
func Classify(fairValue, currentPrice float64) string {
	switch {
	case fairValue > currentPrice*sigUndervaluedRatio:
		return AssessSignificantlyUndervalued
	case fairValue > currentPrice*undervaluedRatio:
		return AssessUndervalued
	case fairValue < currentPrice*sigOvervaluedRatio:
		return AssessSignificantlyOvervalued
	case fairValue < currentPrice*overvaluedRatio:
		return AssessOvervalued
	default:
		return AssessFairValue
	}
}

// upside returns the percent gap between fair value and current price.
func upside(fairValue, currentPrice float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	return (fairValue - currentPrice) / currentPrice * 100
}

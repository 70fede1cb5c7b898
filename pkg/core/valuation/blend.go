package valuation

import "strings"

// Method weights for the blended fair value. Renormalized over whichever
// subset of methods completed.
const (
	dcfWeight         = 0.4
	comparativeWeight = 0.6
)

// Confidence contribution per completed method, in percent.
const confidencePerMethod = 50.0

// Blended is the weighted combination of the available method estimates.
type Blended struct {
	WeightedFairValue float64 `json:"weighted_fair_value"`
	Confidence        float64 `json:"confidence_level_pct"`
	MethodsUsed       int     `json:"methods_used"`
	CurrentPrice      float64 `json:"current_price"`
	ImpliedReturnPct  float64 `json:"implied_return_pct"`
}

// Blend combines the DCF and comparative fair values at 40/60 weights,
// renormalized over whichever completed. Confidence scales with the number of
// contributing methods and is zero when neither produced an estimate, in
// which case the blended value pins to the current price.
func Blend(dcf DCFResult, comp ComparativeResult, currentPrice float64) Blended {
	var weightedSum, totalWeight float64
	methods := 0

	if dcf.Completed() && dcf.FairValue > 0 {
		weightedSum += dcf.FairValue * dcfWeight
		totalWeight += dcfWeight
		methods++
	}
	if comp.Completed() && comp.FairValue > 0 {
		weightedSum += comp.FairValue * comparativeWeight
		totalWeight += comparativeWeight
		methods++
	}

	b := Blended{
		CurrentPrice: currentPrice,
		MethodsUsed:  methods,
	}
	if methods == 0 {
		b.WeightedFairValue = currentPrice
		return b
	}

	b.WeightedFairValue = weightedSum / totalWeight
	b.Confidence = min(float64(methods)*confidencePerMethod, 100)
	b.ImpliedReturnPct = upside(b.WeightedFairValue, currentPrice)
	return b
}

// OverallAssessment summarizes the per-method assessments into a consensus
// label for the report headline.
func OverallAssessment(dcf DCFResult, comp ComparativeResult) string {
	var assessments []string
	if dcf.Completed() {
		assessments = append(assessments, dcf.Assessment)
	}
	if comp.Completed() {
		assessments = append(assessments, comp.Assessment)
	}
	if len(assessments) == 0 {
		return "Unable to determine valuation"
	}

	var under, over, fair int
	for _, a := range assessments {
		lower := strings.ToLower(a)
		switch {
		case strings.Contains(lower, "undervalued"):
			under++
		case strings.Contains(lower, "overvalued"):
			over++
		case strings.Contains(lower, "fair"):
			fair++
		}
	}

	switch {
	case under > over && under > fair:
		if under == len(assessments) {
			return "Strong Undervaluation Signal"
		}
		return "Likely Undervalued"
	case over > under && over > fair:
		if over == len(assessments) {
			return "Strong Overvaluation Signal"
		}
		return "Likely Overvalued"
	default:
		return "Mixed Signals - Fair Value Range"
	}
}

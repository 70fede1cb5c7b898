package valuation

import (
	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/models"
)

// MultipleEstimate is one relative-valuation sub-method (P/E or P/B).
type MultipleEstimate struct {
	Method          string  `json:"method"`
	CurrentMultiple float64 `json:"current_multiple"`
	IndustryAverage float64 `json:"industry_average"`
	FairValue       float64 `json:"fair_value"`
	PremiumDiscount float64 `json:"premium_discount_pct"`
}

// ComparativeResult averages whichever multiple-based estimates the snapshot
// supports.
type ComparativeResult struct {
	Result
	PEEstimate   *MultipleEstimate `json:"pe_multiple,omitempty"`
	PBEstimate   *MultipleEstimate `json:"pb_multiple,omitempty"`
	YieldPremium *float64          `json:"dividend_yield_premium_pct,omitempty"`
}

// CalculateComparative derives fair value from industry-average multiples:
// P/E fair value = EPS * industry P/E, and P/B fair value = book value per
// share * industry P/B, where book value per share is backed out of the
// current price and P/B ratio. Whichever sub-methods have inputs contribute
// equally to the average; with neither, the result pins to the current price.
func CalculateComparative(snap models.StockSnapshot, as assumption.Set) ComparativeResult {
	res := ComparativeResult{
		Result: Result{
			Method:       "Comparative Valuation",
			CurrentPrice: snap.CurrentPrice,
		},
	}

	var fairValues []float64

	if snap.PERatio > 0 && snap.EPS != 0 {
		fv := snap.EPS * as.IndustryPE
		res.PEEstimate = &MultipleEstimate{
			Method:          "P/E Multiple",
			CurrentMultiple: snap.PERatio,
			IndustryAverage: as.IndustryPE,
			FairValue:       fv,
			PremiumDiscount: (snap.PERatio - as.IndustryPE) / as.IndustryPE * 100,
		}
		fairValues = append(fairValues, fv)
	}

	if snap.PBRatio > 0 && snap.CurrentPrice > 0 {
		bookValuePerShare := snap.CurrentPrice / snap.PBRatio
		fv := bookValuePerShare * as.IndustryPB
		res.PBEstimate = &MultipleEstimate{
			Method:          "P/B Multiple",
			CurrentMultiple: snap.PBRatio,
			IndustryAverage: as.IndustryPB,
			FairValue:       fv,
			PremiumDiscount: (snap.PBRatio - as.IndustryPB) / as.IndustryPB * 100,
		}
		fairValues = append(fairValues, fv)
	}

	if snap.DividendYield > 0 && as.IndustryDividendYld > 0 {
		premium := (snap.DividendYield - as.IndustryDividendYld) / as.IndustryDividendYld * 100
		res.YieldPremium = &premium
	}

	if len(fairValues) == 0 {
		res.Status = StatusInsufficientData
		res.FairValue = snap.CurrentPrice
		res.Assessment = AssessUnableToDetermine
		return res
	}

	var sum float64
	for _, fv := range fairValues {
		sum += fv
	}
	res.FairValue = sum / float64(len(fairValues))
	res.UpsidePercent = upside(res.FairValue, snap.CurrentPrice)
	res.Assessment = Classify(res.FairValue, snap.CurrentPrice)
	res.Status = StatusCompleted
	return res
}

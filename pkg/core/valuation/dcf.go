package valuation

import (
	"math"

	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/models"
)

// DCFYear is one projected year of cash flow with its discounted value.
type DCFYear struct {
	Year         int     `json:"year"`
	ProjectedCF  float64 `json:"projected_cf"`
	PresentValue float64 `json:"present_value"`
}

// DCFResult holds the full DCF decomposition alongside the common result
// record, so the report layer can show the projection table.
type DCFResult struct {
	Result
	Assumptions    assumption.Set `json:"assumptions"`
	Projections    []DCFYear      `json:"projected_cashflows,omitempty"`
	SumPVCashflows float64        `json:"sum_pv_cashflows"`
	TerminalValue  float64        `json:"terminal_value"`
	TerminalPV     float64        `json:"terminal_pv"`
}

// Projection horizon in years.
const dcfHorizon = 5

// CalculateDCF projects per-share earnings over the horizon at the tier
// growth rate, discounts each year plus a Gordon-growth terminal value, and
// classifies the summed fair value against the current price.
//
//	CF_y = EPS * (1+g)^y
//	TV   = CF_n * (1+g_t) / (r - g_t), discounted n years
//
// A missing or zero EPS yields a degenerate result pinned to the current
// price rather than an error.
func CalculateDCF(snap models.StockSnapshot, as assumption.Set) DCFResult {
	res := DCFResult{
		Result: Result{
			Method:       "DCF Analysis",
			CurrentPrice: snap.CurrentPrice,
		},
		Assumptions: as,
	}

	if snap.EPS == 0 {
		res.Status = StatusInsufficientData
		res.FairValue = snap.CurrentPrice
		res.Assessment = AssessUnableToCalculate
		return res
	}

	var sumPV float64
	for year := 1; year <= dcfHorizon; year++ {
		cf := snap.EPS * math.Pow(1+as.GrowthRate5Y, float64(year))
		pv := cf / math.Pow(1+as.DiscountRate, float64(year))
		sumPV += pv
		res.Projections = append(res.Projections, DCFYear{
			Year:         year,
			ProjectedCF:  cf,
			PresentValue: pv,
		})
	}

	terminalCF := res.Projections[dcfHorizon-1].ProjectedCF * (1 + as.TerminalGrowthRate)
	res.TerminalValue = terminalCF / (as.DiscountRate - as.TerminalGrowthRate)
	res.TerminalPV = res.TerminalValue / math.Pow(1+as.DiscountRate, dcfHorizon)
	res.SumPVCashflows = sumPV

	res.FairValue = sumPV + res.TerminalPV
	res.UpsidePercent = upside(res.FairValue, snap.CurrentPrice)
	res.Assessment = Classify(res.FairValue, snap.CurrentPrice)
	res.Status = StatusCompleted
	return res
}

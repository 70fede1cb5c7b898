package valuation

import (
	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/models"
)

// WACCResult holds the calculated rates and their components.
type WACCResult struct {
	Method             string  `json:"method"`
	Status             string  `json:"status"`
	Beta               float64 `json:"beta"`
	CostOfEquity       float64 `json:"cost_of_equity"`
	CostOfDebt         float64 `json:"cost_of_debt"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	DebtToEquity       float64 `json:"debt_to_equity"`
	CreditSpread       float64 `json:"credit_spread"`
	EquityWeight       float64 `json:"equity_weight"`
	DebtWeight         float64 `json:"debt_weight"`
	WACC               float64 `json:"wacc"`
	Interpretation     string  `json:"interpretation"`
}

// Capital-structure size bands. Larger companies carry more debt at tighter
// spreads.
const (
	waccLargeBand = 50e9
	waccMidBand   = 10e9
)

// CalculateWACC computes the weighted average cost of capital from CAPM and a
// size-based capital structure estimate.
//
//	Ke   = Rf + beta * MRP
//	Kd   = Rf + spread, after tax Kd * (1-t)
//	WACC = We*Ke + Wd*Kd_at, We = 1/(1+D/E), Wd = (D/E)/(1+D/E)
//
// Every input defaults when absent; the function never fails.
func CalculateWACC(snap models.StockSnapshot, as assumption.Set) WACCResult {
	beta := snap.Beta
	if beta == 0 {
		beta = 1.0
	}

	var debtToEquity, spread float64
	switch {
	case snap.MarketCap > waccLargeBand:
		debtToEquity, spread = 0.30, 0.02
	case snap.MarketCap > waccMidBand:
		debtToEquity, spread = 0.25, 0.03
	default:
		debtToEquity, spread = 0.20, 0.05
	}

	costOfEquity := as.RiskFreeRate + beta*as.MarketRiskPremium
	costOfDebt := as.RiskFreeRate + spread
	afterTaxCostOfDebt := costOfDebt * (1 - as.TaxRate)

	equityWeight := 1 / (1 + debtToEquity)
	debtWeight := debtToEquity / (1 + debtToEquity)

	wacc := equityWeight*costOfEquity + debtWeight*afterTaxCostOfDebt

	return WACCResult{
		Method:             "WACC Analysis",
		Status:             StatusCompleted,
		Beta:               beta,
		CostOfEquity:       costOfEquity,
		CostOfDebt:         costOfDebt,
		AfterTaxCostOfDebt: afterTaxCostOfDebt,
		DebtToEquity:       debtToEquity,
		CreditSpread:       spread,
		EquityWeight:       equityWeight,
		DebtWeight:         debtWeight,
		WACC:               wacc,
		Interpretation:     interpretWACC(wacc),
	}
}

func interpretWACC(wacc float64) string {
	switch {
	case wacc < 0.08:
		return "Low cost of capital - favorable for investment"
	case wacc < 0.12:
		return "Moderate cost of capital - typical for most companies"
	default:
		return "High cost of capital - higher risk profile"
	}
}

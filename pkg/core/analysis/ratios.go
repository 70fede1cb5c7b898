package analysis

import (
	"fmt"

	"stockpitch/pkg/models"
)

func assessRatios(snap models.StockSnapshot) RatioAssessments {
	var r RatioAssessments

	if snap.PERatio != 0 {
		r.PERatio = snap.PERatio
		switch {
		case snap.PERatio < 15:
			r.PEAssessment = "Low (Potentially undervalued)"
		case snap.PERatio > 30:
			r.PEAssessment = "High (Potentially overvalued)"
		default:
			r.PEAssessment = "Moderate (Fair value)"
		}
	}

	if snap.PBRatio != 0 {
		r.PBRatio = snap.PBRatio
		if snap.PBRatio < 1.5 {
			r.PBAssessment = "Low"
		} else {
			r.PBAssessment = "High"
		}
	}

	if snap.DividendYield != 0 {
		r.DividendYield = snap.DividendYield
		if snap.DividendYield > 0.03 {
			r.DividendAssessment = "High"
		} else {
			r.DividendAssessment = "Low"
		}
	}

	if snap.Beta != 0 {
		r.Beta = snap.Beta
		switch {
		case snap.Beta < 1:
			r.BetaAssessment = "Low volatility (Defensive)"
		case snap.Beta > 1.5:
			r.BetaAssessment = "High volatility (Aggressive)"
		default:
			r.BetaAssessment = "Moderate volatility"
		}
	}

	return r
}

// statementScoreMax is the denominator shown in the grade summary.
const statementScoreMax = 24

// scoreStatements computes the six-dimension financial health scorecard.
// Each dimension is a bounded integer score over snapshot fundamentals; the
// letter grade is assigned from the 24-point total.
func scoreStatements(snap models.StockSnapshot) StatementScores {
	var s StatementScores

	if snap.EPS > 0 {
		s.Profitability += 3
		if snap.EPS > 2 {
			s.Profitability += 2
		}
	}
	if snap.PERatio > 0 && snap.PERatio < 25 {
		s.Profitability += 2
	}

	switch {
	case snap.MarketCap > 10e9:
		s.Liquidity = 5
	case snap.MarketCap > 2e9:
		s.Liquidity = 3
	default:
		s.Liquidity = 1
	}

	switch {
	case snap.DividendYield > 0.03:
		s.Leverage = 3
	case snap.DividendYield > 0.01:
		s.Leverage = 2
	default:
		s.Leverage = 1
	}
	if snap.MarketCap > 10e9 {
		s.Leverage += 2
	}

	if snap.PERatio > 0 && snap.PERatio < 20 {
		s.Efficiency += 3
	} else if snap.PERatio > 0 && snap.PERatio < 30 {
		s.Efficiency += 2
	}
	if snap.Beta >= 0.8 && snap.Beta <= 1.2 {
		s.Efficiency += 2
	}

	if snap.PERatio > 0 {
		switch {
		case snap.PERatio < 15:
			s.Valuation += 3
		case snap.PERatio < 25:
			s.Valuation += 2
		default:
			s.Valuation++
		}
	}
	if snap.PBRatio > 0 {
		if snap.PBRatio < 2 {
			s.Valuation += 2
		} else if snap.PBRatio < 3 {
			s.Valuation++
		}
	}

	if snap.PERatio > 20 {
		s.Growth += 2
	} else if snap.PERatio > 15 {
		s.Growth++
	}
	if snap.MarketCap < 10e9 {
		s.Growth += 2
	} else if snap.MarketCap < 50e9 {
		s.Growth++
	}

	s.Overall = s.Profitability + s.Liquidity + s.Leverage + s.Efficiency + s.Valuation + s.Growth
	s.Grade = financialGrade(s.Overall)
	s.Summary = fmt.Sprintf(
		"Financial Health Grade: %s (Score: %d/%d). Assessment based on profitability, liquidity, leverage, efficiency, valuation, and growth metrics.",
		s.Grade, s.Overall, statementScoreMax)
	return s
}

func financialGrade(score int) string {
	switch {
	case score >= 20:
		return "A+ (Excellent)"
	case score >= 17:
		return "A (Very Good)"
	case score >= 14:
		return "B+ (Good)"
	case score >= 11:
		return "B (Above Average)"
	case score >= 8:
		return "C+ (Average)"
	case score >= 5:
		return "C (Below Average)"
	default:
		return "D (Poor)"
	}
}

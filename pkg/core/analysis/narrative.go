package analysis

import (
	"fmt"
	"strings"

	"stockpitch/pkg/models"
)

// The generators in this file are independent pure functions over the same
// snapshot: each reads a few fields through fixed thresholds and emits a
// display string. None of them can fail.

func keyHighlights(snap models.StockSnapshot) []string {
	var highlights []string

	if snap.CurrentPrice > 0 && snap.High52W > snap.Low52W && snap.Low52W > 0 {
		position := (snap.CurrentPrice - snap.Low52W) / (snap.High52W - snap.Low52W)
		if position < 0.3 {
			highlights = append(highlights, fmt.Sprintf("Trading near 52-week low ($%.2f)", snap.Low52W))
		} else if position > 0.7 {
			highlights = append(highlights, fmt.Sprintf("Trading near 52-week high ($%.2f)", snap.High52W))
		}
	}

	if snap.PERatio > 0 {
		if snap.PERatio < 15 {
			highlights = append(highlights, fmt.Sprintf("Low P/E ratio of %.1f suggests potential value", snap.PERatio))
		} else if snap.PERatio > 30 {
			highlights = append(highlights, fmt.Sprintf("High P/E ratio of %.1f indicates growth premium", snap.PERatio))
		}
	}

	if snap.MarketCap > 0 {
		switch {
		case snap.MarketCap > 10e9:
			highlights = append(highlights, "Large-cap stock with established market presence")
		case snap.MarketCap > 2e9:
			highlights = append(highlights, "Mid-cap stock with growth potential")
		default:
			highlights = append(highlights, "Small-cap stock with higher growth/risk profile")
		}
	}

	if snap.DividendYield > 0.02 {
		highlights = append(highlights, fmt.Sprintf("Dividend yield of %.1f%% provides income", snap.DividendYield*100))
	}

	if snap.Beta > 0 {
		if snap.Beta < 0.8 {
			highlights = append(highlights, "Low beta suggests defensive characteristics")
		} else if snap.Beta > 1.5 {
			highlights = append(highlights, "High beta indicates growth/cyclical nature")
		}
	}

	if len(highlights) == 0 {
		highlights = []string{
			"Rule-based analysis completed",
			"Diversification recommended",
		}
	}
	return highlights
}

func riskFlags(snap models.StockSnapshot) []string {
	var risks []string

	if snap.PERatio >= 40 {
		risks = append(risks, "High P/E ratio suggests elevated valuation risk")
	}
	if snap.Beta > 1.5 {
		risks = append(risks, "High beta indicates above-average market sensitivity")
	}
	if snap.DividendYield < 0.01 {
		risks = append(risks, "Low/no dividend yield - not suitable for income-focused portfolios")
	}
	if snap.MarketCap > 0 && snap.MarketCap < 2e9 {
		risks = append(risks, "Small market cap increases liquidity and volatility risks")
	}
	if snap.CurrentPrice > 0 && snap.High52W > 0 && snap.CurrentPrice/snap.High52W > 0.95 {
		risks = append(risks, "Trading near 52-week high - limited upside potential")
	}

	if len(risks) == 0 {
		risks = []string{
			"General market volatility",
			"Sector-specific risks",
			"Economic cycle sensitivity",
		}
	}
	return risks
}

func catalysts(snap models.StockSnapshot) []string {
	var out []string

	if snap.PERatio > 0 && snap.PERatio < 15 {
		out = append(out, "Potential re-rating as market recognizes value")
	} else if snap.PERatio > 30 {
		out = append(out, "Earnings growth needed to justify valuation")
	}
	if snap.DividendYield > 0.04 {
		out = append(out, "Attractive dividend yield in low-rate environment")
	}
	if snap.MarketCap > 0 && snap.MarketCap < 2e9 {
		out = append(out, "Potential acquisition target")
	} else if snap.MarketCap > 50e9 {
		out = append(out, "Index inclusion and institutional buying")
	}
	if snap.Beta > 0 && snap.Beta < 0.8 {
		out = append(out, "Defensive characteristics in volatile markets")
	}

	if len(out) == 0 {
		out = []string{
			"Earnings growth acceleration",
			"Market sentiment improvement",
			"Sector rotation benefits",
		}
	}
	return out
}

var sectorOutlooks = map[string]string{
	"Technology":             "Positive long-term growth driven by digital transformation",
	"Healthcare":             "Stable growth supported by aging demographics",
	"Financial Services":     "Cyclical performance tied to interest rates",
	"Consumer Discretionary": "Sensitive to economic cycles and consumer spending",
	"Consumer Staples":       "Defensive characteristics with steady demand",
	"Energy":                 "Volatile sector dependent on commodity prices",
	"Industrials":            "Cyclical growth tied to economic expansion",
	"Materials":              "Commodity-dependent with cyclical patterns",
	"Real Estate":            "Interest rate sensitive with income generation",
	"Utilities":              "Defensive sector with stable dividend yields",
	"Communication Services": "Mixed growth driven by media and telecom trends",
}

func sectorOutlook(sector string) string {
	if outlook, ok := sectorOutlooks[sector]; ok {
		return outlook
	}
	return "Sector-specific dynamics require careful analysis"
}

func competitivePosition(marketCap float64) string {
	switch {
	case marketCap > 100e9:
		return "Market leader with significant competitive advantages"
	case marketCap > 10e9:
		return "Established player with solid market position"
	case marketCap > 2e9:
		return "Growing company with emerging market presence"
	default:
		return "Smaller player with niche opportunities"
	}
}

func financialStrength(snap models.StockSnapshot) string {
	score := 0
	if snap.PERatio >= 10 && snap.PERatio <= 20 {
		score++
	}
	if snap.DividendYield > 0.02 {
		score++
	}
	if snap.MarketCap > 10e9 {
		score++
	}

	switch {
	case score >= 3:
		return "Strong financial foundation"
	case score >= 2:
		return "Solid financial position"
	default:
		return "Moderate financial strength"
	}
}

func growthProspects(snap models.StockSnapshot) string {
	switch {
	case snap.PERatio > 25:
		if snap.Beta > 1.2 {
			return "High growth expectations with elevated risk"
		}
		return "Growth premium reflected in valuation"
	case snap.PERatio > 0 && snap.PERatio < 15:
		return "Value opportunity with potential upside"
	default:
		return "Balanced growth and value characteristics"
	}
}

// riskLevel counts weighted risk factors across beta, valuation, and size.
func riskLevel(snap models.StockSnapshot) string {
	factors := 0

	if snap.Beta > 1.5 {
		factors += 2
	} else if snap.Beta > 1.2 {
		factors++
	}
	if snap.PERatio > 40 {
		factors += 2
	} else if snap.PERatio > 25 {
		factors++
	}
	if snap.MarketCap < 2e9 {
		factors += 2
	} else if snap.MarketCap < 10e9 {
		factors++
	}

	switch {
	case factors >= 4:
		return "HIGH RISK"
	case factors >= 2:
		return "MODERATE RISK"
	default:
		return "LOW RISK"
	}
}

func pricePerformance(snap models.StockSnapshot) PricePerformance {
	var perf PricePerformance
	if snap.CurrentPrice <= 0 || snap.High52W <= snap.Low52W || snap.Low52W <= 0 {
		return perf
	}
	perf.HasRange = true
	perf.FromLowPct = (snap.CurrentPrice - snap.Low52W) / snap.Low52W * 100
	perf.FromHighPct = (snap.High52W - snap.CurrentPrice) / snap.High52W * 100
	perf.RangePosition = (snap.CurrentPrice - snap.Low52W) / (snap.High52W - snap.Low52W)
	return perf
}

func investmentThesis(snap models.StockSnapshot, valuationLabel string, rec Recommendation) string {
	name := snap.CompanyName
	if name == "" {
		name = snap.Symbol
	}

	var parts []string
	if snap.MarketCap > 0 {
		switch {
		case snap.MarketCap > 10e9:
			parts = append(parts, fmt.Sprintf("%s is a large-cap stock with established market presence", name))
		case snap.MarketCap > 2e9:
			parts = append(parts, fmt.Sprintf("%s is a mid-cap stock with significant growth potential", name))
		default:
			parts = append(parts, fmt.Sprintf("%s is a small-cap stock with high growth prospects", name))
		}
	} else {
		parts = append(parts, name)
	}

	lower := strings.ToLower(valuationLabel)
	switch {
	case strings.Contains(lower, "undervalued"):
		parts = append(parts, "trading at attractive valuation levels")
	case strings.Contains(lower, "overvalued"):
		parts = append(parts, "reflecting premium growth expectations")
	default:
		parts = append(parts, "trading at fair market value")
	}

	switch rec {
	case StrongBuy, Buy:
		parts = append(parts, "presenting a compelling investment opportunity with upside potential")
	case Sell:
		parts = append(parts, "facing headwinds that warrant caution")
	default:
		parts = append(parts, "suitable for portfolio diversification with balanced risk-return profile")
	}

	return fmt.Sprintf("%s. Our analysis suggests a %s rating based on fundamental metrics.",
		strings.Join(parts, ", "), rec)
}

// FormatMarketCap renders a market cap with T/B/M suffixes for display.
func FormatMarketCap(marketCap float64) string {
	switch {
	case marketCap > 1e12:
		return fmt.Sprintf("$%.1fT", marketCap/1e12)
	case marketCap > 1e9:
		return fmt.Sprintf("$%.1fB", marketCap/1e9)
	case marketCap > 1e6:
		return fmt.Sprintf("$%.1fM", marketCap/1e6)
	default:
		return fmt.Sprintf("$%.0f", marketCap)
	}
}

func interpretBeta(beta float64) string {
	switch {
	case beta <= 0:
		return "Unknown volatility"
	case beta < 0.8:
		return "Low volatility"
	case beta > 1.5:
		return "High volatility"
	default:
		return "Moderate volatility"
	}
}

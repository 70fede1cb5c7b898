// Package assumption derives the valuation assumption bundle for a company
// from its market-capitalization tier, with optional overrides loaded from an
// Hjson file or supplied by the caller.
package assumption

// Tier is the market-capitalization bucket used to select default assumptions.
type Tier string

const (
	TierMega  Tier = "mega"
	TierLarge Tier = "large"
	TierMid   Tier = "mid"
	TierSmall Tier = "small"
)

// Set is one complete assumption bundle for a valuation run.
type Set struct {
	Tier                Tier    `json:"tier"`
	GrowthRate5Y        float64 `json:"growth_rate_5y"`
	TerminalGrowthRate  float64 `json:"terminal_growth_rate"`
	DiscountRate        float64 `json:"discount_rate"`
	RiskFreeRate        float64 `json:"risk_free_rate"`
	MarketRiskPremium   float64 `json:"market_risk_premium"`
	TaxRate             float64 `json:"tax_rate"`
	IndustryPE          float64 `json:"industry_pe"`
	IndustryPB          float64 `json:"industry_pb"`
	IndustryDividendYld float64 `json:"industry_dividend_yield"`
}

// CAPM and industry-average constants shared by every tier.
const (
	DefaultRiskFreeRate      = 0.045
	DefaultMarketRiskPremium = 0.065
	DefaultTaxRate           = 0.25
	DefaultIndustryPE        = 20.0
	DefaultIndustryPB        = 2.5
	DefaultIndustryDivYield  = 0.025
)

// Market-cap tier thresholds.
const (
	megaCapFloor  = 1e12
	largeCapFloor = 200e9
	midCapFloor   = 10e9
)

// ForMarketCap returns the assumption bundle for a market cap. It is a total
// function: zero or negative caps resolve to the small-cap tier. Every bundle
// satisfies DiscountRate > TerminalGrowthRate, which the terminal-value
// formula requires.
func ForMarketCap(marketCap float64) Set {
	s := Set{
		RiskFreeRate:        DefaultRiskFreeRate,
		MarketRiskPremium:   DefaultMarketRiskPremium,
		TaxRate:             DefaultTaxRate,
		IndustryPE:          DefaultIndustryPE,
		IndustryPB:          DefaultIndustryPB,
		IndustryDividendYld: DefaultIndustryDivYield,
	}

	switch {
	case marketCap > megaCapFloor:
		s.Tier = TierMega
		s.GrowthRate5Y = 0.06
		s.TerminalGrowthRate = 0.025
		s.DiscountRate = 0.08
	case marketCap > largeCapFloor:
		s.Tier = TierLarge
		s.GrowthRate5Y = 0.08
		s.TerminalGrowthRate = 0.03
		s.DiscountRate = 0.09
	case marketCap > midCapFloor:
		s.Tier = TierMid
		s.GrowthRate5Y = 0.10
		s.TerminalGrowthRate = 0.035
		s.DiscountRate = 0.10
	default:
		s.Tier = TierSmall
		s.GrowthRate5Y = 0.12
		s.TerminalGrowthRate = 0.04
		s.DiscountRate = 0.12
	}

	return s
}

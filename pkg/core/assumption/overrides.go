package assumption

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// Overrides holds caller-supplied replacements for individual assumption
// fields. Pointer fields distinguish "not set" from an explicit zero.
type Overrides struct {
	GrowthRate5Y        *float64 `json:"growth_rate_5y"`
	TerminalGrowthRate  *float64 `json:"terminal_growth_rate"`
	DiscountRate        *float64 `json:"discount_rate"`
	RiskFreeRate        *float64 `json:"risk_free_rate"`
	MarketRiskPremium   *float64 `json:"market_risk_premium"`
	TaxRate             *float64 `json:"tax_rate"`
	IndustryPE          *float64 `json:"industry_pe"`
	IndustryPB          *float64 `json:"industry_pb"`
	IndustryDividendYld *float64 `json:"industry_dividend_yield"`
}

// LoadOverrides reads an Hjson overrides file. Hjson is deliberately lenient
// so the file can carry comments and unquoted keys, the same format the rest
// of the lenient-config paths use.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assumptions file: %w", err)
	}

	var ov Overrides
	if err := hjson.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse assumptions file %s: %w", path, err)
	}
	return &ov, nil
}

// Apply returns a copy of s with every set override substituted. The
// DiscountRate > TerminalGrowthRate invariant is enforced after substitution:
// an override pair that would break it is rejected.
func (ov *Overrides) Apply(s Set) (Set, error) {
	if ov == nil {
		return s, nil
	}

	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.GrowthRate5Y, ov.GrowthRate5Y)
	set(&s.TerminalGrowthRate, ov.TerminalGrowthRate)
	set(&s.DiscountRate, ov.DiscountRate)
	set(&s.RiskFreeRate, ov.RiskFreeRate)
	set(&s.MarketRiskPremium, ov.MarketRiskPremium)
	set(&s.TaxRate, ov.TaxRate)
	set(&s.IndustryPE, ov.IndustryPE)
	set(&s.IndustryPB, ov.IndustryPB)
	set(&s.IndustryDividendYld, ov.IndustryDividendYld)

	if s.DiscountRate <= s.TerminalGrowthRate {
		return s, fmt.Errorf("discount rate %.4f must exceed terminal growth %.4f",
			s.DiscountRate, s.TerminalGrowthRate)
	}
	return s, nil
}

// Package report builds the pitch deck from a finished analysis and
// exports it. The deck is a plain slide model so exporters stay
// format-agnostic.
package report

import (
	"fmt"
	"time"

	"stockpitch/pkg/core/analysis"
)

// Slide is one titled block of pitch content.
type Slide struct {
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

// Pitch is the complete deck for one symbol.
type Pitch struct {
	Symbol      string    `json:"symbol"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	GeneratedAt time.Time `json:"generated_at"`
	Slides      []Slide   `json:"slides"`
}

// BuildPitch assembles the deck from the analysis. Slide order follows the
// standard pitch structure: summary, valuation, highlights and risks,
// metrics, recommendation.
func BuildPitch(a analysis.Analysis) Pitch {
	now := time.Now().UTC()

	p := Pitch{
		Symbol:      a.Symbol,
		Title:       fmt.Sprintf("%s Stock Pitch", a.Symbol),
		Subtitle:    fmt.Sprintf("Investment Analysis - %s\n%s", a.CompanyName, now.Format("January 2, 2006")),
		GeneratedAt: now,
	}

	p.Slides = append(p.Slides, Slide{
		Title: "Executive Summary",
		Body: []string{
			a.InvestmentThesis,
			fmt.Sprintf("Valuation: %s", a.ValuationAssessment),
			fmt.Sprintf("Risk Level: %s", a.RiskLevel),
		},
	})

	val := Slide{Title: "Valuation Analysis"}
	if a.Valuation.DCF.Completed() {
		val.Body = append(val.Body,
			fmt.Sprintf("DCF Fair Value: $%.2f (%s)", a.Valuation.DCF.FairValue, a.Valuation.DCF.Assessment))
	}
	val.Body = append(val.Body,
		fmt.Sprintf("WACC: %.2f%% (%s)", a.Valuation.WACC.WACC*100, a.Valuation.WACC.Interpretation))
	if a.Valuation.Comparative.Completed() {
		val.Body = append(val.Body,
			fmt.Sprintf("Comparative Fair Value: $%.2f (%s)", a.Valuation.Comparative.FairValue, a.Valuation.Comparative.Assessment))
	}
	if a.Valuation.WeightedFair.Confidence > 0 {
		val.Body = append(val.Body,
			fmt.Sprintf("Blended Fair Value: $%.2f (confidence %.0f%%)", a.Valuation.WeightedFair.WeightedFairValue, a.Valuation.WeightedFair.Confidence))
	}
	val.Body = append(val.Body, fmt.Sprintf("Consensus: %s", a.Valuation.Assessment))
	p.Slides = append(p.Slides, val)

	hr := Slide{Title: "Highlights & Risks"}
	hr.Body = append(hr.Body, "Key Highlights:")
	for _, h := range a.KeyHighlights {
		hr.Body = append(hr.Body, "  - "+h)
	}
	hr.Body = append(hr.Body, "Key Risks:")
	for _, r := range a.Risks {
		hr.Body = append(hr.Body, "  - "+r)
	}
	p.Slides = append(p.Slides, hr)

	p.Slides = append(p.Slides, Slide{
		Title: "Financial Metrics",
		Body: []string{
			fmt.Sprintf("Current Price: $%.2f", a.CurrentPrice),
			fmt.Sprintf("Market Cap: %s", analysis.FormatMarketCap(a.Metrics.MarketCap)),
			fmt.Sprintf("P/E Ratio: %.2fx", a.Metrics.PERatio),
			fmt.Sprintf("EPS: $%.2f", a.Metrics.EPS),
			fmt.Sprintf("Beta: %.2f", a.Metrics.Beta),
			fmt.Sprintf("Dividend Yield: %.2f%%", a.Metrics.DividendYield*100),
			fmt.Sprintf("52-Week Range: $%.2f - $%.2f", a.Metrics.Low52W, a.Metrics.High52W),
			fmt.Sprintf("Financial Health: %s", a.Valuation.Statements.Grade),
		},
	})

	p.Slides = append(p.Slides, Slide{
		Title: "Investment Recommendation",
		Body: []string{
			fmt.Sprintf("Recommendation: %s", a.Recommendation),
			fmt.Sprintf("Target Price: $%.2f (12-month)", a.TargetPrice),
			fmt.Sprintf("Upside Potential: %s", a.UpsidePotential),
			fmt.Sprintf("Sector Outlook: %s", a.SectorOutlook),
		},
	})

	return p
}

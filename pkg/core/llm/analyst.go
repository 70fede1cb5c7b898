package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"stockpitch/pkg/core/analysis"
	"stockpitch/pkg/core/utils"
	"stockpitch/pkg/models"
)

const analystSystemPrompt = "You are a professional equity research analyst. You provide balanced, objective analysis using the financial data supplied. You calculate with the actual numbers given, consider both bullish and bearish factors, and recommend BUY for significantly undervalued stocks, HOLD for fairly valued stocks, and SELL for overvalued stocks. Respond ONLY with valid JSON."

// modelVerdict is the schema the model is asked to fill.
type modelVerdict struct {
	Analysis         string   `json:"analysis"`
	InvestmentThesis string   `json:"investment_thesis"`
	Highlights       []string `json:"highlights"`
	Risks            []string `json:"risks"`
	Recommendation   string   `json:"recommendation"`
	TargetPrice      float64  `json:"target_price"`
	UpsidePotential  float64  `json:"upside_potential"`
}

// Analyst runs the premium path: it sends the snapshot, statements, and the
// rule-based valuation to a model and merges the verdict onto the analysis.
// Every failure degrades to the rule-based result untouched.
type Analyst struct {
	provider Provider
	log      zerolog.Logger
}

func NewAnalyst(provider Provider, log zerolog.Logger) *Analyst {
	return &Analyst{
		provider: provider,
		log:      log.With().Str("component", "analyst").Str("provider", provider.Name()).Logger(),
	}
}

// Enhance returns base with the model's verdict merged in. The returned
// bool reports whether the model contributed anything.
func (a *Analyst) Enhance(ctx context.Context, snap models.StockSnapshot, stmts models.FinancialStatements, base analysis.Analysis) (analysis.Analysis, bool) {
	prompt := buildPrompt(snap, stmts, base)

	raw, err := a.provider.GenerateResponse(ctx, prompt, analystSystemPrompt, map[string]interface{}{
		"response_format": "json_object",
	})
	if err != nil {
		a.log.Warn().Err(err).Str("symbol", snap.Symbol).Msg("model call failed, keeping rule-based analysis")
		return base, false
	}

	var verdict modelVerdict
	_, parseErr := utils.SmartParse(raw, &verdict)
	if parseErr != nil {
		verdict = modelVerdict{}
	}

	merged, ok := mergeVerdict(base, snap.CurrentPrice, verdict)
	if !ok {
		// The model wrapped its JSON in prose, or returned an empty
		// object. Salvage whatever fields the raw text still carries.
		a.log.Warn().AnErr("parse_error", parseErr).Str("symbol", snap.Symbol).Msg("structured output unusable, extracting fields from raw text")
		extracted, found := extractVerdict(raw)
		if !found {
			a.log.Warn().Str("symbol", snap.Symbol).Msg("no usable fields in model output, keeping rule-based analysis")
			return base, false
		}
		merged, ok = mergeVerdict(base, snap.CurrentPrice, extracted)
		if !ok {
			return base, false
		}
	}

	a.log.Info().
		Str("symbol", snap.Symbol).
		Str("recommendation", string(merged.Recommendation)).
		Float64("target_price", merged.TargetPrice).
		Msg("model verdict merged")
	return merged, true
}

// mergeVerdict copies the verdict's usable fields onto base. Reports false
// when nothing merged, in which case base comes back unchanged.
func mergeVerdict(base analysis.Analysis, currentPrice float64, verdict modelVerdict) (analysis.Analysis, bool) {
	merged := base
	used := false

	if verdict.Analysis != "" {
		merged.Narrative = utils.CleanMarkdown(verdict.Analysis)
		used = true
	}
	if verdict.InvestmentThesis != "" {
		merged.InvestmentThesis = verdict.InvestmentThesis
		used = true
	}
	if len(verdict.Highlights) > 0 {
		merged.KeyHighlights = verdict.Highlights
		used = true
	}
	if len(verdict.Risks) > 0 {
		merged.Risks = verdict.Risks
		used = true
	}
	if rec, ok := parseRecommendation(verdict.Recommendation); ok {
		merged.Recommendation = rec
		used = true
	}
	if verdict.TargetPrice > 0 && currentPrice > 0 {
		merged.TargetPrice = verdict.TargetPrice
		merged.UpsidePotential = fmt.Sprintf("%.1f%%", (verdict.TargetPrice-currentPrice)/currentPrice*100)
		used = true
	}

	if !used {
		return base, false
	}
	merged.AnalysisType = "AI-Enhanced Analysis"
	return merged, true
}

var (
	thesisPattern     = regexp.MustCompile(`(?i)"investment_thesis"\s*:\s*"([^"]+)"`)
	recPattern        = regexp.MustCompile(`(?i)"recommendation"\s*:\s*"([^"]+)"`)
	targetPattern     = regexp.MustCompile(`(?i)"target_price"\s*:\s*"?(-?[0-9][0-9,]*\.?[0-9]*)`)
	upsidePattern     = regexp.MustCompile(`(?i)"upside_potential"\s*:\s*"?(-?[0-9]+\.?[0-9]*)`)
	highlightsPattern = regexp.MustCompile(`(?is)"highlights"\s*:\s*\[(.*?)\]`)
	risksPattern      = regexp.MustCompile(`(?is)"risks"\s*:\s*\[(.*?)\]`)
)

// extractVerdict salvages fields from a response where the model buried
// its JSON in prose. The raw text stands in for the analysis; the
// structured fields are pulled out one by one. Reports false when no
// structured field could be found.
func extractVerdict(raw string) (modelVerdict, bool) {
	verdict := modelVerdict{Analysis: raw}
	found := false

	if m := recPattern.FindStringSubmatch(raw); m != nil {
		verdict.Recommendation = m[1]
		found = true
	}
	if m := targetPattern.FindStringSubmatch(raw); m != nil {
		if price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			verdict.TargetPrice = price
			found = true
		}
	}
	if m := upsidePattern.FindStringSubmatch(raw); m != nil {
		if upside, err := strconv.ParseFloat(m[1], 64); err == nil {
			verdict.UpsidePotential = upside
		}
	}
	if m := thesisPattern.FindStringSubmatch(raw); m != nil {
		verdict.InvestmentThesis = m[1]
		found = true
	}
	if items := extractStringList(highlightsPattern, raw); len(items) > 0 {
		verdict.Highlights = items
		found = true
	}
	if items := extractStringList(risksPattern, raw); len(items) > 0 {
		verdict.Risks = items
		found = true
	}

	return verdict, found
}

func extractStringList(re *regexp.Regexp, raw string) []string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	var items []string
	for _, part := range strings.Split(m[1], ",") {
		if s := strings.Trim(part, " \t\n\""); s != "" {
			items = append(items, s)
		}
	}
	return items
}

func parseRecommendation(s string) (analysis.Recommendation, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STRONG BUY":
		return analysis.StrongBuy, true
	case "BUY":
		return analysis.Buy, true
	case "HOLD":
		return analysis.Hold, true
	case "SELL":
		return analysis.Sell, true
	}
	return "", false
}

func buildPrompt(snap models.StockSnapshot, stmts models.FinancialStatements, base analysis.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PROFESSIONAL FINANCIAL ANALYSIS REQUIRED\n\n")
	fmt.Fprintf(&b, "Company: %s (%s)\n", snap.CompanyName, snap.Symbol)
	fmt.Fprintf(&b, "Sector: %s / %s\n", snap.Sector, snap.Industry)
	fmt.Fprintf(&b, "Current Price: $%.2f\n\n", snap.CurrentPrice)

	b.WriteString("MARKET DATA (USE THESE EXACT NUMBERS):\n")
	fmt.Fprintf(&b, "- Market Cap: $%.0f\n", snap.MarketCap)
	fmt.Fprintf(&b, "- P/E Ratio: %.2f\n", snap.PERatio)
	fmt.Fprintf(&b, "- EPS (TTM): %.2f\n", snap.EPS)
	fmt.Fprintf(&b, "- P/B Ratio: %.2f\n", snap.PBRatio)
	fmt.Fprintf(&b, "- Beta: %.2f\n", snap.Beta)
	fmt.Fprintf(&b, "- Dividend Yield: %.2f%%\n", snap.DividendYield*100)
	fmt.Fprintf(&b, "- 52-Week Range: $%.2f - $%.2f\n\n", snap.Low52W, snap.High52W)

	b.WriteString("QUANTITATIVE VALUATION ALREADY COMPUTED (cross-check, do not ignore):\n")
	fmt.Fprintf(&b, "- DCF Fair Value: $%.2f (%s)\n", base.Valuation.DCF.FairValue, base.Valuation.DCF.Assessment)
	fmt.Fprintf(&b, "- WACC: %.2f%%\n", base.Valuation.WACC.WACC*100)
	fmt.Fprintf(&b, "- Comparative Fair Value: $%.2f (%s)\n", base.Valuation.Comparative.FairValue, base.Valuation.Comparative.Assessment)
	fmt.Fprintf(&b, "- Blended Fair Value: $%.2f (confidence %.0f%%)\n", base.Valuation.WeightedFair.WeightedFairValue, base.Valuation.WeightedFair.Confidence)
	fmt.Fprintf(&b, "- Rule-based Recommendation: %s, target $%.2f\n\n", base.Recommendation, base.TargetPrice)

	writeStatement(&b, "INCOME STATEMENT", stmts.IncomeStatement)
	writeStatement(&b, "BALANCE SHEET", stmts.BalanceSheet)
	writeStatement(&b, "CASH FLOW", stmts.CashFlow)

	b.WriteString(`RESPOND WITH ONLY THIS JSON (replace every placeholder with actual numbers):
{
    "analysis": "DCF and fundamentals discussion with the real figures and your reasoning.",
    "investment_thesis": "Thesis grounded in valuation vs price with specific metrics.",
    "highlights": ["...", "..."],
    "risks": ["...", "..."],
    "recommendation": "STRONG BUY|BUY|HOLD|SELL",
    "target_price": 0.0,
    "upside_potential": 0.0
}

RULES:
- Use positive upside for undervalued, negative for overvalued
- Base the recommendation on valuation AND fundamentals
- Be objective; cover strengths and weaknesses
`)
	return b.String()
}

// writeStatement emits the most recent period of one statement, capped so a
// giant scrape cannot blow up the prompt.
func writeStatement(b *strings.Builder, title string, stmt map[string][]models.StatementLine) {
	if len(stmt) == 0 {
		return
	}
	var latest string
	for period := range stmt {
		if latest == "" || period > latest {
			latest = period
		}
	}
	lines := stmt[latest]
	const maxLines = 25
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	fmt.Fprintf(b, "%s (%s):\n", title, latest)
	for _, line := range lines {
		fmt.Fprintf(b, "- %s: %.0f\n", line.Label, line.Value)
	}
	b.WriteString("\n")
}

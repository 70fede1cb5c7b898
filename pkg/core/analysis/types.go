package analysis

import (
	"time"

	"stockpitch/pkg/core/valuation"
	"stockpitch/pkg/models"
)

// Recommendation is the discrete rating label shown to the user.
type Recommendation string

const (
	StrongBuy Recommendation = "STRONG BUY"
	Buy       Recommendation = "BUY"
	Hold      Recommendation = "HOLD"
	Sell      Recommendation = "SELL"
)

// ValuationAnalysis bundles the per-method estimates with their blend.
type ValuationAnalysis struct {
	CurrentPrice float64                     `json:"current_price"`
	DCF          valuation.DCFResult         `json:"dcf_analysis"`
	WACC         valuation.WACCResult        `json:"wacc_analysis"`
	Comparative  valuation.ComparativeResult `json:"comparative_valuation"`
	Statements   StatementScores             `json:"financial_statement_analysis"`
	WeightedFair valuation.Blended           `json:"weighted_fair_value"`
	Assessment   string                      `json:"assessment"`
}

// PricePerformance situates the current price inside the 52-week range.
type PricePerformance struct {
	FromLowPct    float64 `json:"52w_performance_pct"`
	FromHighPct   float64 `json:"distance_from_high_pct"`
	RangePosition float64 `json:"position_in_range"` // 0 at the low, 1 at the high
	HasRange      bool    `json:"has_range"`
}

// Analysis is the complete output of one analysis run. It is created fresh
// per call and never mutated afterwards.
type Analysis struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	CompanyName  string    `json:"company_name"`
	AnalysisDate time.Time `json:"analysis_date"`
	AnalysisType string    `json:"analysis_type"`

	CurrentPrice        float64        `json:"current_price"`
	BaseRecommendation  Recommendation `json:"base_recommendation"`
	BaseTargetPrice     float64        `json:"base_target_price"`
	Recommendation      Recommendation `json:"recommendation"`
	TargetPrice         float64        `json:"target_price"`
	ValuationAssessment string         `json:"valuation_assessment"`
	UpsidePotential     string         `json:"upside_potential"`
	InvestmentHorizon   string         `json:"investment_horizon"`
	RiskLevel           string         `json:"risk_level"`

	InvestmentThesis    string   `json:"investment_thesis"`
	SectorOutlook       string   `json:"sector_outlook"`
	CompetitivePosition string   `json:"competitive_position"`
	FinancialStrength   string   `json:"financial_strength"`
	GrowthProspects     string   `json:"growth_prospects"`
	KeyHighlights       []string `json:"key_highlights"`
	Risks               []string `json:"risks"`
	Catalysts           []string `json:"key_catalysts"`

	Ratios           RatioAssessments     `json:"financial_ratios"`
	PricePerformance PricePerformance     `json:"price_performance"`
	Valuation        ValuationAnalysis    `json:"valuation_analysis"`
	Metrics          models.StockSnapshot `json:"metrics"`

	// Narrative markdown: rule-generated for the free path, model-generated
	// for the premium path.
	Narrative string `json:"ai_analysis"`
}

// RatioAssessments carries the threshold-based readings of the snapshot
// ratios plus the aggregate health scoring.
type RatioAssessments struct {
	PERatio            float64 `json:"pe_ratio,omitempty"`
	PEAssessment       string  `json:"pe_assessment,omitempty"`
	PBRatio            float64 `json:"pb_ratio,omitempty"`
	PBAssessment       string  `json:"pb_assessment,omitempty"`
	DividendYield      float64 `json:"dividend_yield,omitempty"`
	DividendAssessment string  `json:"dividend_assessment,omitempty"`
	Beta               float64 `json:"beta,omitempty"`
	BetaAssessment     string  `json:"beta_assessment,omitempty"`
}

// StatementScores is the rule-based financial-statement scoring: six scored
// dimensions summed into an overall grade.
type StatementScores struct {
	Method        string `json:"method"`
	Status        string `json:"status"`
	Profitability int    `json:"profitability_score"`
	Liquidity     int    `json:"liquidity_score"`
	Leverage      int    `json:"leverage_score"`
	Efficiency    int    `json:"efficiency_score"`
	Valuation     int    `json:"valuation_score"`
	Growth        int    `json:"growth_score"`
	Overall       int    `json:"overall_score"`
	Grade         string `json:"grade"`
	Summary       string `json:"summary"`
}

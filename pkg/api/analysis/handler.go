// Package analysis exposes the pitch pipeline over HTTP.
package analysis

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"stockpitch/pkg/core/pipeline"
	"stockpitch/pkg/core/store"
)

type Handler struct {
	orchestrator *pipeline.Orchestrator
	repo         *store.AnalysisRepo // nil when persistence is disabled
	log          zerolog.Logger
}

func NewHandler(orch *pipeline.Orchestrator, repo *store.AnalysisRepo, log zerolog.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		repo:         repo,
		log:          log.With().Str("component", "api").Logger(),
	}
}

type AnalyzeRequest struct {
	Symbol  string `json:"symbol"`
	Premium bool   `json:"premium"`
}

// HandleAnalyze runs the pipeline for the requested symbol.
// POST /api/analyze
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	result, err := h.orchestrator.Run(r.Context(), symbol, req.Premium)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("analysis request failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, result)
}

// HandleGetAnalysis serves a previously stored analysis.
// GET /api/analysis?symbol=AAPL
func (h *Handler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if h.repo == nil {
		http.Error(w, "persistence is not configured", http.StatusNotImplemented)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	a, err := h.repo.Load(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, a)
}

// HandleListAnalyses lists symbols with a stored analysis.
// GET /api/analyses
func (h *Handler) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if h.repo == nil {
		http.Error(w, "persistence is not configured", http.StatusNotImplemented)
		return
	}

	symbols, err := h.repo.ListSymbols(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"symbols": symbols})
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

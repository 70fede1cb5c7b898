package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	apianalysis "stockpitch/pkg/api/analysis"
	apistatus "stockpitch/pkg/api/status"
	"stockpitch/pkg/config"
	"stockpitch/pkg/core/analysis"
	"stockpitch/pkg/core/assumption"
	"stockpitch/pkg/core/llm"
	"stockpitch/pkg/core/marketdata"
	"stockpitch/pkg/core/pipeline"
	"stockpitch/pkg/core/report"
	"stockpitch/pkg/core/store"
	"stockpitch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	fetcher := marketdata.NewFetcher(log,
		marketdata.WithBaseURL(cfg.DataBaseURL),
		marketdata.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
	)
	engine := analysis.NewEngine(log)
	orch := pipeline.NewOrchestrator(fetcher, engine, log)

	// Premium path: wired only when a provider has credentials.
	var activeProvider string
	if cfg.PremiumAvailable() {
		regCfg, err := llm.LoadRegistryConfig("config/providers.yaml")
		if err != nil {
			log.Debug().Err(err).Msg("no provider config file, using defaults")
		}
		registry := llm.NewRegistry(regCfg, llm.Credentials{
			OpenAIKey:     cfg.OpenAIAPIKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
			OpenAIModel:   cfg.OpenAIModel,
			GeminiKey:     cfg.GeminiAPIKey,
			GeminiModel:   cfg.GeminiModel,
		})
		active := registry.Active()
		activeProvider = active.Name()
		orch.SetAnalyst(llm.NewAnalyst(active, log))
	} else {
		log.Info().Msg("no LLM credentials configured, premium analysis disabled")
	}

	// Persistence: optional, keyed off DATABASE_URL.
	var repo *store.AnalysisRepo
	if cfg.DatabaseURL != "" {
		if err := store.InitDB(context.Background(), cfg.DatabaseURL); err != nil {
			log.Warn().Err(err).Msg("database init failed, persistence disabled")
		} else {
			defer store.Close()
			repo = store.NewAnalysisRepo()
			orch.SetRepo(repo)
		}
	}

	if cfg.AssumptionsFile != "" {
		ov, err := assumption.LoadOverrides(cfg.AssumptionsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.AssumptionsFile).Msg("loading assumption overrides")
		}
		orch.SetOverrides(ov)
	}

	orch.SetExporter(&report.MarkdownExporter{OutputDir: cfg.OutputDir})

	handler := apianalysis.NewHandler(orch, repo, log)
	http.HandleFunc("/api/analyze", handler.HandleAnalyze)
	http.HandleFunc("/api/analysis", handler.HandleGetAnalysis)
	http.HandleFunc("/api/analyses", handler.HandleListAnalyses)

	statusHandler := apistatus.NewHandler(cfg.PremiumAvailable(), activeProvider, repo != nil)
	http.HandleFunc("/api/status", statusHandler.HandleStatus)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("API server listening")
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

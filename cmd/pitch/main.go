// Command pitch generates a stock pitch for one symbol from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

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
	symbol := flag.String("symbol", "", "ticker symbol to analyze (required)")
	premium := flag.Bool("premium", false, "use the model-enhanced analysis path")
	format := flag.String("format", "md", "pitch output format: md or html")
	output := flag.String("output", "", "output directory (defaults to OUTPUT_DIR)")
	assumptions := flag.String("assumptions", "", "path to an assumption overrides file (hjson)")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall run timeout")
	flag.Parse()

	if *symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	outDir := cfg.OutputDir
	if *output != "" {
		outDir = *output
	}

	fetcher := marketdata.NewFetcher(log,
		marketdata.WithBaseURL(cfg.DataBaseURL),
		marketdata.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
	)
	engine := analysis.NewEngine(log)
	orch := pipeline.NewOrchestrator(fetcher, engine, log)

	if *premium {
		if !cfg.PremiumAvailable() {
			log.Fatal().Msg("premium requested but no LLM credentials configured")
		}
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
		orch.SetAnalyst(llm.NewAnalyst(registry.Active(), log))
	}

	overridesPath := cfg.AssumptionsFile
	if *assumptions != "" {
		overridesPath = *assumptions
	}
	if overridesPath != "" {
		ov, err := assumption.LoadOverrides(overridesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", overridesPath).Msg("loading assumption overrides")
		}
		orch.SetOverrides(ov)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if cfg.DatabaseURL != "" {
		if err := store.InitDB(ctx, cfg.DatabaseURL); err != nil {
			log.Warn().Err(err).Msg("database init failed, persistence disabled")
		} else {
			defer store.Close()
			orch.SetRepo(store.NewAnalysisRepo())
		}
	}

	switch *format {
	case "md":
		orch.SetExporter(&report.MarkdownExporter{OutputDir: outDir})
	case "html":
		orch.SetExporter(&report.HTMLExporter{OutputDir: outDir})
	default:
		log.Fatal().Str("format", *format).Msg("unknown format")
	}

	result, err := orch.Run(ctx, *symbol, *premium)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}

	a := result.Analysis
	fmt.Printf("\n%s (%s)\n", a.CompanyName, a.Symbol)
	fmt.Printf("Recommendation: %s\n", a.Recommendation)
	fmt.Printf("Target Price:   $%.2f (%s upside)\n", a.TargetPrice, a.UpsidePotential)
	fmt.Printf("Valuation:      %s\n", a.ValuationAssessment)
	fmt.Printf("Risk Level:     %s\n", a.RiskLevel)
	if result.ReportPath != "" {
		fmt.Printf("Pitch written:  %s\n", result.ReportPath)
	}
}

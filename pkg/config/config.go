// Package config centralizes environment configuration. Only this package
// calls os.Getenv; everything else receives a *Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the application.
type Config struct {
	// Server
	Port string

	// Database. Persistence is optional: an empty URL disables the store.
	DatabaseURL string

	// LLM providers for the premium analysis path.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string

	// Market data
	DataBaseURL    string
	RequestTimeout int // seconds

	// Snapshot caching (reserved; the fetcher does not cache yet).
	CacheEnabled         bool
	CacheDurationMinutes int

	// Reports
	OutputDir       string
	AssumptionsFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading a .env file
// if one is found near the working directory or the executable.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DataBaseURL:    getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
		RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 10),

		CacheEnabled:         getEnvAsBool("CACHE_ENABLED", false),
		CacheDurationMinutes: getEnvAsInt("CACHE_DURATION_MINUTES", 15),

		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		AssumptionsFile: getEnv("ASSUMPTIONS_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// PremiumAvailable reports whether at least one LLM provider is configured.
func (c *Config) PremiumAvailable() bool {
	return c.OpenAIAPIKey != "" || c.GeminiAPIKey != ""
}

func (c *Config) validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.CacheDurationMinutes < 0 {
		return fmt.Errorf("CACHE_DURATION_MINUTES must not be negative")
	}
	return nil
}

func loadEnvFile() {
	paths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

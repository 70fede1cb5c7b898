package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.RequestTimeout != 10 {
		t.Errorf("Expected default timeout 10, got %d", cfg.RequestTimeout)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("Expected default output dir, got %q", cfg.OutputDir)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("Unexpected logging defaults: %q / %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/pitch")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/pitch" {
		t.Errorf("Unexpected database URL %q", cfg.DatabaseURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("Expected timeout 30, got %d", cfg.RequestTimeout)
	}
	if !cfg.CacheEnabled {
		t.Error("Expected cache enabled")
	}
	if cfg.LogFormat != "console" {
		t.Errorf("Expected console format, got %q", cfg.LogFormat)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-5")

	if _, err := Load(); err == nil {
		t.Error("Expected validation error for negative timeout")
	}
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RequestTimeout != 10 {
		t.Errorf("Expected fallback timeout 10, got %d", cfg.RequestTimeout)
	}
}

func TestPremiumAvailable(t *testing.T) {
	c := &Config{}
	if c.PremiumAvailable() {
		t.Error("Expected premium unavailable without keys")
	}
	c.GeminiAPIKey = "g-test"
	if !c.PremiumAvailable() {
		t.Error("Expected premium available with a Gemini key")
	}
}

package llm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryConfig(t *testing.T) {
	content := `active_provider: gemini
providers:
  openai:
    model: gpt-4o
    base_url: https://example.com/v1
  gemini:
    model: gemini-2.5-pro
`
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRegistryConfig(path)
	if err != nil {
		t.Fatalf("LoadRegistryConfig failed: %v", err)
	}
	if cfg.ActiveProvider != "gemini" {
		t.Errorf("Expected active provider gemini, got %q", cfg.ActiveProvider)
	}
	if cfg.Providers["openai"].Model != "gpt-4o" {
		t.Errorf("Unexpected openai model %q", cfg.Providers["openai"].Model)
	}
}

func TestRegistryActiveSelection(t *testing.T) {
	cfg := RegistryConfig{
		ActiveProvider: "gemini",
		Providers: map[string]ProviderConfig{
			"gemini": {Model: "gemini-2.5-pro"},
		},
	}
	r := NewRegistry(cfg, Credentials{OpenAIKey: "sk-test", GeminiKey: "g-test"})

	if r.Active().Name() != "gemini" {
		t.Errorf("Expected gemini active, got %q", r.Active().Name())
	}

	p, err := r.Get("openai")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected openai, got %q", p.Name())
	}

	if _, err := r.Get("deepthought"); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestRegistryDefaultsToFirstProvider(t *testing.T) {
	r := NewRegistry(RegistryConfig{}, Credentials{OpenAIKey: "sk-test"})
	if r.Active().Name() != "openai" {
		t.Errorf("Expected openai as default, got %q", r.Active().Name())
	}
}

func TestRegistryModelPrecedence(t *testing.T) {
	// Environment models apply when the config file is silent; a
	// providers.yaml entry wins over the environment.
	creds := Credentials{
		OpenAIKey:   "sk-test",
		OpenAIModel: "gpt-4o-mini",
		GeminiKey:   "g-test",
		GeminiModel: "gemini-2.5-flash",
	}

	r := NewRegistry(RegistryConfig{}, creds)
	if m := r.providers["openai"].(*OpenAIProvider).Model; m != "gpt-4o-mini" {
		t.Errorf("Expected environment model gpt-4o-mini, got %q", m)
	}
	if m := r.providers["gemini"].(*GeminiProvider).Model; m != "gemini-2.5-flash" {
		t.Errorf("Expected environment model gemini-2.5-flash, got %q", m)
	}

	cfg := RegistryConfig{
		Providers: map[string]ProviderConfig{
			"openai": {Model: "gpt-4o"},
		},
	}
	r = NewRegistry(cfg, creds)
	if m := r.providers["openai"].(*OpenAIProvider).Model; m != "gpt-4o" {
		t.Errorf("Expected config file model gpt-4o, got %q", m)
	}
	if m := r.providers["gemini"].(*GeminiProvider).Model; m != "gemini-2.5-flash" {
		t.Errorf("Expected environment model kept for gemini, got %q", m)
	}
}

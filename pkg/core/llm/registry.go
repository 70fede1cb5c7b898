package llm

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// RegistryConfig selects the active provider and its per-provider settings.
// It is usually loaded from providers.yaml; an empty config means "first
// provider that has credentials".
type RegistryConfig struct {
	ActiveProvider string                    `yaml:"active_provider"`
	Providers      map[string]ProviderConfig `yaml:"providers"`
}

type ProviderConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// LoadRegistryConfig reads a providers.yaml file.
func LoadRegistryConfig(path string) (RegistryConfig, error) {
	var cfg RegistryConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading provider config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing provider config: %w", err)
	}
	return cfg, nil
}

// Registry holds the constructed providers and picks the active one.
type Registry struct {
	config    RegistryConfig
	providers map[string]Provider
	order     []string
}

// Credentials carries the environment-level provider settings. A
// providers.yaml entry overrides the model and base URL per provider.
type Credentials struct {
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiKey     string
	GeminiModel   string
}

// NewRegistry builds providers from the given credentials. Providers
// without a key are still registered; they fail at call time with a clear
// error instead of silently vanishing.
func NewRegistry(cfg RegistryConfig, creds Credentials) *Registry {
	openai := &OpenAIProvider{APIKey: creds.OpenAIKey, BaseURL: creds.OpenAIBaseURL, Model: creds.OpenAIModel}
	gemini := &GeminiProvider{APIKey: creds.GeminiKey, Model: creds.GeminiModel}

	if pc, ok := cfg.Providers["openai"]; ok {
		if pc.Model != "" {
			openai.Model = pc.Model
		}
		if pc.BaseURL != "" {
			openai.BaseURL = pc.BaseURL
		}
	}
	if pc, ok := cfg.Providers["gemini"]; ok && pc.Model != "" {
		gemini.Model = pc.Model
	}

	return &Registry{
		config: cfg,
		providers: map[string]Provider{
			"openai": openai,
			"gemini": gemini,
		},
		order: []string{"openai", "gemini"},
	}
}

// Active returns the configured provider, or the first registered one when
// nothing is configured.
func (r *Registry) Active() Provider {
	if p, ok := r.providers[r.config.ActiveProvider]; ok {
		return p
	}
	return r.providers[r.order[0]]
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}

// Package llm holds the model providers behind the premium analysis path.
package llm

import (
	"context"
)

// Provider is the interface all model backends implement. Options carry
// provider-specific knobs ("model", "api_key", "response_format") without
// widening the interface per backend.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	Name() string
}

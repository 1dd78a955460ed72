// Package llm talks to the text generation service.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider is implemented by every generation backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete sends one prompt and returns the generated text as is.
	Complete(ctx context.Context, req *Request) (string, error)
}

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	JSON        bool // ask for a JSON object
	MaxTokens   int
	Temperature float64
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewProvider creates a provider from cfg.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("openai requires an API key")
		}
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

package model

import (
	"context"
	"fmt"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// Provider is a handle to one hosted model backend. Handles are explicitly
// constructed per request or per process and released with Close; there is no
// package-level model state.
type Provider interface {
	// Complete sends a prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend for logging.
	Name() string
	// Close releases any resources held by the handle.
	Close() error
}

// NewProvider constructs the named provider from config. modelName overrides
// the configured default model when non-empty.
func NewProvider(ctx context.Context, cfg models.AIConfig, providerName, modelName string) (Provider, error) {
	switch providerName {
	case "openai":
		name := modelName
		if name == "" {
			name = cfg.OpenAI.Model
		}
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, name), nil

	case "gemini":
		name := modelName
		if name == "" {
			name = cfg.Gemini.Model
		}
		return NewGeminiProvider(ctx, cfg.Gemini.APIKey, name)

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", providerName)
	}
}

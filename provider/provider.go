package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/compscout/config"
	openai_provider "github.com/mohammad-safakhou/compscout/provider/openai"
)

// LLM is the contract for text-generation providers. The orchestration layer
// sends one prompt per competitor (analysis) or per pair (comparison) and
// consumes the raw completion text.
type LLM interface {
	// Generate generates a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateWithTokens generates a completion and reports token usage.
	GenerateWithTokens(ctx context.Context, prompt string) (string, int64, error)
}

// NewLLM creates the configured text-generation client. A missing API key is
// a configuration error that fails construction.
func NewLLM(cfg config.LLMConfig) (LLM, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key is required")
	}
	return openai_provider.NewClient(cfg), nil
}

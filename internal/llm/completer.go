// Package llm wraps the completion APIs used to turn posts into ideas.
package llm

import (
	"context"
	"errors"
	"fmt"

	"reddit-ideas/internal/config"
)

// ErrEmptyCompletion is returned when the provider answers with no text.
var ErrEmptyCompletion = errors.New("no content from completion API")

// Completer sends a single user prompt and returns the model's text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds the completer selected by the configuration
func New(cfg config.CompletionConfig) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

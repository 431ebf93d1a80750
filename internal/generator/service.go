package generator

import "context"

// Service defines the interface for text generation
type Service interface {
	// Generate produces a completion for the given prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider constants for supported backends
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

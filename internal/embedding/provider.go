package embedding

import (
	"context"

	"github.com/askdb/askdb/internal/config"
	apperrors "github.com/askdb/askdb/internal/errors"
)

// Provider defines the interface for embedding providers. Implementations
// must be deterministic: the same input text always yields the same vector
// for a fixed model version, so search results are reproducible across runs.
type Provider interface {
	// GenerateEmbedding generates an embedding for the given text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetDimensions returns the dimensionality of embeddings produced by this provider
	GetDimensions() int

	// GetName returns the provider name and model version for identification
	// and cache keying
	GetName() string
}

// NewProvider creates a provider from configuration
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "local":
		return NewLocalProvider(cfg)
	case "remote":
		return NewRemoteProvider(cfg)
	default:
		return nil, apperrors.Newf(
			apperrors.ErrTypeConfig,
			"unsupported embedding provider: %s",
			cfg.Provider,
		)
	}
}

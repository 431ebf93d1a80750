package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/askdb/askdb/internal/cache"
	"github.com/askdb/askdb/internal/config"
)

// Manager wraps a provider with an optional persistent vector cache. The
// cache is keyed by entry id, content hash, and model version; query
// embeddings are never cached since questions are unbounded.
type Manager struct {
	provider Provider
	cache    *cache.VectorCache
}

// NewManager creates a new embedding manager from configuration
func NewManager(cfg config.EmbeddingConfig) (*Manager, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	return &Manager{provider: provider}, nil
}

// NewManagerWithProvider creates a manager around an existing provider
func NewManagerWithProvider(provider Provider) *Manager {
	return &Manager{provider: provider}
}

// WithCache attaches a persistent vector cache
func (m *Manager) WithCache(c *cache.VectorCache) *Manager {
	m.cache = c
	return m
}

// GenerateEmbedding embeds arbitrary text without touching the cache
func (m *Manager) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return m.provider.GenerateEmbedding(ctx, text)
}

// EmbedEntry embeds a knowledge entry's content, consulting the cache first.
// The cache key folds in a hash of the content, so replacing an entry's
// content under the same id re-embeds instead of serving the stale vector.
// A cache write failure is not fatal; the computed vector is still returned.
func (m *Manager) EmbedEntry(ctx context.Context, id, text string) ([]float32, error) {
	key := entryCacheKey(id, text)

	if m.cache != nil {
		if vector, err := m.cache.Get(ctx, key, m.ModelVersion()); err == nil {
			return vector, nil
		}
	}

	vector, err := m.provider.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		_ = m.cache.Set(ctx, key, m.ModelVersion(), vector)
	}

	return vector, nil
}

// entryCacheKey derives the cache id from the entry id and its content
func entryCacheKey(id, text string) string {
	sum := sha256.Sum256([]byte(text))
	return id + ":" + hex.EncodeToString(sum[:8])
}

// ModelVersion identifies the provider and model for cache keying
func (m *Manager) ModelVersion() string {
	return m.provider.GetName()
}

// GetDimensions returns the embedding dimensions
func (m *Manager) GetDimensions() int {
	return m.provider.GetDimensions()
}

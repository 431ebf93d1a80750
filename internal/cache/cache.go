package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// VectorCache persists embedding vectors on disk, keyed by entry id and
// embedding model version. Changing either key component invalidates the
// cached vector, so a model upgrade never serves stale embeddings.
type VectorCache struct {
	directory string
	mu        sync.RWMutex
}

// entry is the on-disk representation of a cached vector
type entry struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Vector    []float32 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVectorCache creates a new file-based vector cache
func NewVectorCache(directory string) (*VectorCache, error) {
	if strings.HasPrefix(directory, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}

		directory = filepath.Join(home, directory[2:])
	}

	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &VectorCache{directory: directory}, nil
}

// Get retrieves a cached vector for the given entry id and model version
func (c *VectorCache) Get(ctx context.Context, id, model string) ([]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(c.filePath(id, model))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("cache miss: vector not found")
		}

		return nil, fmt.Errorf("failed to read cached vector: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse cached vector: %w", err)
	}

	// Guard against key collisions and hand-edited files.
	if e.ID != id || e.Model != model {
		return nil, errors.New("cache miss: key mismatch")
	}

	return e.Vector, nil
}

// Set stores a vector for the given entry id and model version
func (c *VectorCache) Set(ctx context.Context, id, model string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := json.Marshal(entry{
		ID:        id,
		Model:     model,
		Vector:    vector,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal vector entry: %w", err)
	}

	if err := os.WriteFile(c.filePath(id, model), data, 0600); err != nil {
		return fmt.Errorf("failed to write cached vector: %w", err)
	}

	return nil
}

// Delete removes the cached vector for an entry id and model version
func (c *VectorCache) Delete(ctx context.Context, id, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := os.Remove(c.filePath(id, model))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cached vector: %w", err)
	}

	return nil
}

// Clear removes all cached vectors
func (c *VectorCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := os.ReadDir(c.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if !dirEntry.IsDir() && strings.HasSuffix(dirEntry.Name(), ".vec") {
			os.Remove(filepath.Join(c.directory, dirEntry.Name()))
		}
	}

	return nil
}

// filePath returns the file path for an id/model pair
func (c *VectorCache) filePath(id, model string) string {
	hasher := sha256.New()
	hasher.Write([]byte(id))
	hasher.Write([]byte{0})
	hasher.Write([]byte(model))

	name := hex.EncodeToString(hasher.Sum(nil))[:16]

	return filepath.Join(c.directory, name+".vec")
}

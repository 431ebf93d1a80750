package knowledge

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/askdb/askdb/internal/embedding"
	apperrors "github.com/askdb/askdb/internal/errors"
)

// Store holds knowledge entries with their embeddings in memory and serves
// cosine-similarity search over them. Adding an entry with an existing id
// replaces it; insertion order is remembered so equal-score search results
// rank deterministically.
type Store struct {
	mu       sync.RWMutex
	embedder *embedding.Manager
	entries  map[string]*storedEntry
	order    []string
}

type storedEntry struct {
	entry    Entry
	vector   []float32
	position int
}

// NewStore creates an empty store backed by the given embedder
func NewStore(embedder *embedding.Manager) *Store {
	return &Store{
		embedder: embedder,
		entries:  make(map[string]*storedEntry),
	}
}

// Add embeds an entry's content and stores it. The embedding happens before
// the store is touched, so a failed embed leaves no partial entry behind.
func (s *Store) Add(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return apperrors.New(apperrors.ErrTypeValidation, "knowledge entry id cannot be empty")
	}

	if strings.TrimSpace(entry.Content) == "" {
		return apperrors.Newf(apperrors.ErrTypeValidation,
			"knowledge entry %s has empty content", entry.ID)
	}

	vector, err := s.embedder.EmbedEntry(ctx, entry.ID, entry.Content)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrTypeEmbedding,
			"failed to embed knowledge entry %s", entry.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[entry.ID]; ok {
		existing.entry = entry
		existing.vector = vector
		return nil
	}

	s.entries[entry.ID] = &storedEntry{
		entry:    entry,
		vector:   vector,
		position: len(s.order),
	}
	s.order = append(s.order, entry.ID)

	return nil
}

// AddAll adds entries in order, stopping at the first failure
func (s *Store) AddAll(ctx context.Context, entries []Entry) error {
	for _, entry := range entries {
		if err := s.Add(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// Get returns an entry by id
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return stored.entry, true
}

// Remove deletes an entry by id, reporting whether it existed
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}

	delete(s.entries, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	for i, existing := range s.order {
		s.entries[existing].position = i
	}

	return true
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// List returns all entries in insertion order
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id].entry)
	}
	return entries
}

// Search embeds the query and returns the topK most similar entries by
// cosine similarity, highest first. Ties break toward earlier insertion.
// An empty store yields no results and no error.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return nil, apperrors.Newf(apperrors.ErrTypeValidation,
			"search topK must be positive: %d", topK)
	}

	s.mu.RLock()
	empty := len(s.entries) == 0
	s.mu.RUnlock()

	if empty {
		return nil, nil
	}

	queryVector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeEmbedding,
			"failed to embed search query")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		result   SearchResult
		position int
	}

	candidates := make([]scored, 0, len(s.entries))
	for _, id := range s.order {
		stored := s.entries[id]
		candidates = append(candidates, scored{
			result: SearchResult{
				Entry: stored.entry,
				Score: cosineSimilarity(queryVector, stored.vector),
			},
			position: stored.position,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].result.Score != candidates[j].result.Score {
			return candidates[i].result.Score > candidates[j].result.Score
		}
		return candidates[i].position < candidates[j].position
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}

	results := make([]SearchResult, topK)
	for i := 0; i < topK; i++ {
		results[i] = candidates[i].result
	}

	return results, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score zero rather than erroring; a
// degenerate entry should rank last, not break search.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

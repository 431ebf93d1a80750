package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/askdb/askdb/internal/config"
	apperrors "github.com/askdb/askdb/internal/errors"
)

// maxTextLen bounds input size the way hosted embedding models do; longer
// documents should be chunked by the caller.
const maxTextLen = 32768

// LocalProvider generates embeddings without a network dependency using
// feature hashing: each token is hashed into a bucket of a fixed-size vector
// with a hash-derived sign, and the result is L2-normalized. The projection
// is crude compared to a learned model but fully deterministic, which is the
// property search reproducibility depends on.
type LocalProvider struct {
	model      string
	dimensions int
}

// NewLocalProvider creates a local hashing embedder
func NewLocalProvider(cfg config.EmbeddingConfig) (*LocalProvider, error) {
	if cfg.Dimensions <= 0 {
		return nil, apperrors.Newf(
			apperrors.ErrTypeConfig,
			"embedding dimensions must be positive: %d",
			cfg.Dimensions,
		)
	}

	return &LocalProvider{
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// GenerateEmbedding hashes the text's tokens into a normalized vector
func (p *LocalProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.ErrTypeEmbedding, "cannot embed empty text")
	}

	if len(text) > maxTextLen {
		return nil, apperrors.Newf(
			apperrors.ErrTypeEmbedding,
			"text exceeds embedding input limit: %d > %d",
			len(text), maxTextLen,
		)
	}

	vector := make([]float32, p.dimensions)

	for _, token := range tokenize(text) {
		bucket, sign := hashToken(token, p.dimensions)
		vector[bucket] += sign
	}

	normalize(vector)

	return vector, nil
}

// GetDimensions returns the embedding dimensions
func (p *LocalProvider) GetDimensions() int {
	return p.dimensions
}

// GetName returns the provider name for identification
func (p *LocalProvider) GetName() string {
	return "local:" + p.model
}

// tokenize lowercases the text and splits it on non-alphanumeric runes
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hashToken maps a token to a vector bucket and a +1/-1 sign
func hashToken(token string, dimensions int) (int, float32) {
	hasher := fnv.New64a()
	hasher.Write([]byte(token))
	h := hasher.Sum64()

	bucket := int(h % uint64(dimensions))

	sign := float32(1)
	if h&(1<<63) != 0 {
		sign = -1
	}

	return bucket, sign
}

// normalize scales the vector to unit length in place
func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		return
	}

	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}

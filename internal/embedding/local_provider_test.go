package embedding

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/askdb/askdb/internal/config"
	apperrors "github.com/askdb/askdb/internal/errors"
)

func newTestProvider(t *testing.T, dims int) *LocalProvider {
	t.Helper()

	provider, err := NewLocalProvider(config.EmbeddingConfig{
		Model:      "token-hash-v1",
		Dimensions: dims,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	return provider
}

func TestLocalProvider_Deterministic(t *testing.T) {
	provider := newTestProvider(t, 64)
	ctx := context.Background()

	first, err := provider.GenerateEmbedding(ctx, "total revenue from completed orders")
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	second, err := provider.GenerateEmbedding(ctx, "total revenue from completed orders")
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Embedding not deterministic at dim %d: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestLocalProvider_DistinctTexts(t *testing.T) {
	provider := newTestProvider(t, 64)
	ctx := context.Background()

	a, err := provider.GenerateEmbedding(ctx, "count customers by country")
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	b, err := provider.GenerateEmbedding(ctx, "products running low on stock")
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	same := true

	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}

	if same {
		t.Error("Expected different texts to produce different embeddings")
	}
}

func TestLocalProvider_Normalized(t *testing.T) {
	provider := newTestProvider(t, 128)

	vector, err := provider.GenerateEmbedding(context.Background(), "customers orders revenue")
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}

	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("Expected unit-length vector, got norm %f", math.Sqrt(sum))
	}
}

func TestLocalProvider_EmptyText(t *testing.T) {
	provider := newTestProvider(t, 64)

	_, err := provider.GenerateEmbedding(context.Background(), "   ")
	if err == nil {
		t.Fatal("Expected error embedding empty text")
	}

	if !apperrors.IsType(err, apperrors.ErrTypeEmbedding) {
		t.Errorf("Expected embedding error type, got %s", apperrors.GetType(err))
	}
}

func TestLocalProvider_TextTooLong(t *testing.T) {
	provider := newTestProvider(t, 64)

	_, err := provider.GenerateEmbedding(context.Background(), strings.Repeat("x ", maxTextLen))
	if err == nil {
		t.Fatal("Expected error embedding oversized text")
	}

	if !apperrors.IsType(err, apperrors.ErrTypeEmbedding) {
		t.Errorf("Expected embedding error type, got %s", apperrors.GetType(err))
	}
}

func TestManager_EntryCacheRoundTrip(t *testing.T) {
	provider := newTestProvider(t, 32)
	manager := NewManagerWithProvider(provider)

	ctx := context.Background()

	direct, err := provider.GenerateEmbedding(ctx, "orders table tracks customer orders")
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	viaManager, err := manager.EmbedEntry(ctx, "orders_table", "orders table tracks customer orders")
	if err != nil {
		t.Fatalf("Failed to embed via manager: %v", err)
	}

	for i := range direct {
		if direct[i] != viaManager[i] {
			t.Fatalf("Manager changed the embedding at dim %d", i)
		}
	}

	if manager.ModelVersion() != "local:token-hash-v1" {
		t.Errorf("Unexpected model version: %s", manager.ModelVersion())
	}
}

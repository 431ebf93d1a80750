package testutil

import (
	"context"
	"testing"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/embedding"
	"github.com/askdb/askdb/internal/knowledge"
	"github.com/askdb/askdb/internal/schema"
)

// NewTestEmbedder builds a deterministic local embedding manager
func NewTestEmbedder(t *testing.T) *embedding.Manager {
	t.Helper()

	manager, err := embedding.NewManager(config.EmbeddingConfig{
		Provider:   "local",
		Model:      "token-hash-v1",
		Dimensions: 128,
	})
	if err != nil {
		t.Fatalf("Failed to create embedding manager: %v", err)
	}

	return manager
}

// NewSeededStore builds a knowledge store loaded with the seed corpus
func NewSeededStore(t *testing.T) *knowledge.Store {
	t.Helper()

	store := knowledge.NewStore(NewTestEmbedder(t))
	if err := store.AddAll(context.Background(), knowledge.SeedEntries()); err != nil {
		t.Fatalf("Failed to seed knowledge store: %v", err)
	}

	return store
}

// NewTestProfiles builds profiles for the demo retail schema
func NewTestProfiles() []*schema.TableProfile {
	return []*schema.TableProfile{
		{
			TableName: "customers",
			RowCount:  200,
			Columns: []schema.ColumnProfile{
				{Name: "customer_id", DeclaredType: "integer"},
				{Name: "country", DeclaredType: "varchar", Nullable: true, DistinctCount: 4, IsCategorical: true},
			},
			CategoricalSummary: map[string][]string{
				"country": {"Canada", "Spain", "UK", "USA"},
			},
		},
		{
			TableName: "orders",
			RowCount:  1000,
			Columns: []schema.ColumnProfile{
				{Name: "order_id", DeclaredType: "integer"},
				{Name: "customer_id", DeclaredType: "integer"},
				{Name: "status", DeclaredType: "varchar", DistinctCount: 3, IsCategorical: true},
			},
			CategoricalSummary: map[string][]string{
				"status": {"completed", "processing", "shipped"},
			},
			ForeignKeys: []schema.ForeignKey{
				{Column: "customer_id", ReferencedTable: "customers", ReferencedColumn: "customer_id"},
			},
		},
	}
}

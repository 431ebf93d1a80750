package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/embedding"
	"github.com/askdb/askdb/internal/knowledge"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/schema"
)

func newTestAssembler(t *testing.T, maxChars int) *Assembler {
	t.Helper()

	logging.SetupFallbackLogger()

	manager, err := embedding.NewManager(config.EmbeddingConfig{
		Provider:   "local",
		Model:      "token-hash-v1",
		Dimensions: 128,
	})
	if err != nil {
		t.Fatalf("Failed to create embedding manager: %v", err)
	}

	store := knowledge.NewStore(manager)
	if err := store.AddAll(context.Background(), knowledge.SeedEntries()); err != nil {
		t.Fatalf("Failed to seed knowledge store: %v", err)
	}

	return NewAssembler(store,
		config.ContextConfig{MaxChars: maxChars},
		config.KnowledgeConfig{TopK: 3})
}

func testProfiles() []*schema.TableProfile {
	return []*schema.TableProfile{
		{
			TableName: "customers",
			RowCount:  200,
			Columns: []schema.ColumnProfile{
				{Name: "customer_id", DeclaredType: "integer"},
				{Name: "country", DeclaredType: "varchar", Nullable: true, IsCategorical: true},
			},
			CategoricalSummary: map[string][]string{
				"country": {"Canada", "Spain", "UK", "USA"},
			},
		},
		{
			TableName: "products",
			RowCount:  50,
			Columns: []schema.ColumnProfile{
				{Name: "product_id", DeclaredType: "integer"},
				{Name: "category", DeclaredType: "varchar", IsCategorical: true},
			},
			CategoricalSummary: map[string][]string{
				"category": {"Electronics", "Furniture"},
			},
		},
		{
			TableName: "orders",
			RowCount:  1000,
			Columns: []schema.ColumnProfile{
				{Name: "order_id", DeclaredType: "integer"},
				{Name: "status", DeclaredType: "varchar", IsCategorical: true},
			},
			CategoricalSummary: map[string][]string{
				"status": {"completed", "processing", "shipped"},
			},
		},
	}
}

func TestBuildContext_IncludesAllTablesWithinBudget(t *testing.T) {
	assembler := newTestAssembler(t, 16000)

	retrieved, err := assembler.BuildContext(context.Background(),
		"how many customers per country", testProfiles())
	if err != nil {
		t.Fatalf("Failed to build context: %v", err)
	}

	for _, table := range []string{"customers", "products", "orders"} {
		if !strings.Contains(retrieved.SchemaText, "TABLE: "+table) {
			t.Errorf("Expected %s in schema text", table)
		}
	}

	if len(retrieved.OmittedTables) != 0 {
		t.Errorf("Expected no omitted tables, got %v", retrieved.OmittedTables)
	}

	if len(retrieved.Snippets) != 3 {
		t.Errorf("Expected 3 knowledge snippets, got %d", len(retrieved.Snippets))
	}
}

func TestBuildContext_TruncatesByKeywordOverlap(t *testing.T) {
	profiles := testProfiles()
	customersLen := len(schema.Summary(profiles[0]))

	// Budget fits exactly one table; the question mentions customers and
	// country, so that table must be the survivor.
	assembler := newTestAssembler(t, customersLen+10)

	retrieved, err := assembler.BuildContext(context.Background(),
		"count customers by country", profiles)
	if err != nil {
		t.Fatalf("Failed to build context: %v", err)
	}

	if !strings.Contains(retrieved.SchemaText, "TABLE: customers") {
		t.Errorf("Expected customers table kept:\n%s", retrieved.SchemaText)
	}

	if strings.Contains(retrieved.SchemaText, "TABLE: products") {
		t.Error("Expected products table dropped under budget pressure")
	}

	if len(retrieved.OmittedTables) == 0 {
		t.Error("Expected omitted tables to be reported")
	}

	if len(retrieved.SchemaText) > customersLen+10 {
		t.Errorf("Schema text exceeds budget: %d chars", len(retrieved.SchemaText))
	}
}

func TestBuildContext_KeptTablesPreserveOriginalOrder(t *testing.T) {
	profiles := testProfiles()
	budget := len(schema.Summary(profiles[0])) + len(schema.Summary(profiles[2])) + 20

	// Question favors orders; customers also matches. Both fit, products
	// does not, and the output must keep schema order: customers first.
	assembler := newTestAssembler(t, budget)

	retrieved, err := assembler.BuildContext(context.Background(),
		"orders by status for customers in each country", profiles)
	if err != nil {
		t.Fatalf("Failed to build context: %v", err)
	}

	customersAt := strings.Index(retrieved.SchemaText, "TABLE: customers")
	ordersAt := strings.Index(retrieved.SchemaText, "TABLE: orders")

	if customersAt == -1 || ordersAt == -1 {
		t.Fatalf("Expected customers and orders kept:\n%s", retrieved.SchemaText)
	}

	if customersAt > ordersAt {
		t.Error("Expected kept tables in original schema order")
	}
}

func TestBuildContext_SnippetRelevance(t *testing.T) {
	assembler := newTestAssembler(t, 16000)

	retrieved, err := assembler.BuildContext(context.Background(),
		"what is the total revenue from completed orders", testProfiles())
	if err != nil {
		t.Fatalf("Failed to build context: %v", err)
	}

	found := false
	for _, id := range retrieved.KnowledgeIDs() {
		if id == "revenue_calculation" || id == "revenue_rule" {
			found = true
		}
	}

	if !found {
		t.Errorf("Expected a revenue snippet in %v", retrieved.KnowledgeIDs())
	}
}

func TestDocument_Layout(t *testing.T) {
	assembler := newTestAssembler(t, 16000)

	retrieved, err := assembler.BuildContext(context.Background(),
		"count customers", testProfiles())
	if err != nil {
		t.Fatalf("Failed to build context: %v", err)
	}

	doc := retrieved.Document()

	if !strings.HasPrefix(doc, "DATABASE SCHEMA:") {
		t.Error("Expected document to open with the schema section")
	}

	if !strings.Contains(doc, "RELEVANT KNOWLEDGE:") {
		t.Error("Expected knowledge section in document")
	}
}

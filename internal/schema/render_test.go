package schema

import (
	"strings"
	"testing"
)

func sampleProfile() *TableProfile {
	return &TableProfile{
		TableName: "orders",
		RowCount:  100,
		Columns: []ColumnProfile{
			{Name: "id", DeclaredType: "integer", Nullable: false},
			{Name: "status", DeclaredType: "varchar", Nullable: true, DistinctCount: 3, IsCategorical: true},
		},
		CategoricalSummary: map[string][]string{
			"status": {"completed", "pending", "refunded"},
		},
		ForeignKeys: []ForeignKey{
			{Column: "customer_id", ReferencedTable: "customers", ReferencedColumn: "id"},
		},
		SampleRows: []map[string]interface{}{
			{"id": 7, "status": "completed"},
		},
	}
}

func TestSummary_Layout(t *testing.T) {
	text := Summary(sampleProfile())

	expected := []string{
		"TABLE: orders (100 rows)",
		"id integer NOT NULL",
		"status varchar NULL",
		`[values: "completed", "pending", "refunded"]`,
		"RELATIONSHIPS:",
		"orders.customer_id -> customers.id",
		"SAMPLE ROWS:",
		"id=7 | status=completed",
	}

	for _, want := range expected {
		if !strings.Contains(text, want) {
			t.Errorf("Summary missing %q:\n%s", want, text)
		}
	}
}

func TestSummary_OmitsEmptySections(t *testing.T) {
	profile := sampleProfile()
	profile.ForeignKeys = nil
	profile.SampleRows = nil

	text := Summary(profile)

	if strings.Contains(text, "RELATIONSHIPS") {
		t.Error("Expected no relationships section without foreign keys")
	}

	if strings.Contains(text, "SAMPLE ROWS") {
		t.Error("Expected no sample section without sample rows")
	}
}

func TestSummary_Deterministic(t *testing.T) {
	profile := sampleProfile()

	if Summary(profile) != Summary(profile) {
		t.Error("Expected identical renders of the same profile")
	}
}

func TestSummaryAll_PreservesOrder(t *testing.T) {
	first := sampleProfile()
	second := sampleProfile()
	second.TableName = "customers"

	text := SummaryAll([]*TableProfile{first, second})

	if strings.Index(text, "TABLE: orders") > strings.Index(text, "TABLE: customers") {
		t.Error("Expected profiles rendered in input order")
	}
}

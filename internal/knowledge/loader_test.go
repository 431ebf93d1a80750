package knowledge

import (
	"strings"
	"testing"
)

func TestEntriesFromJSON(t *testing.T) {
	data := []byte(`[
		{"id": "rule1", "content": "Revenue only counts completed orders.", "metadata": {"type": "business_rule"}},
		{"content": "An entry without an id gets one assigned."}
	]`)

	entries, err := EntriesFromJSON(data)
	if err != nil {
		t.Fatalf("Failed to parse entries: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].ID != "rule1" {
		t.Errorf("Expected explicit id to be kept, got %s", entries[0].ID)
	}

	if entries[1].ID == "" {
		t.Error("Expected generated id for entry without one")
	}
}

func TestEntriesFromJSON_Invalid(t *testing.T) {
	if _, err := EntriesFromJSON([]byte(`{"not": "an array"}`)); err == nil {
		t.Error("Expected error for non-array JSON")
	}
}

func TestEntriesFromHTML(t *testing.T) {
	html := `<html><body><h1>Revenue policy</h1><p>Only <strong>completed</strong> orders count.</p></body></html>`

	entries, err := EntriesFromHTML(html, "business_rule")
	if err != nil {
		t.Fatalf("Failed to convert HTML: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]

	if entry.ID == "" {
		t.Error("Expected generated id")
	}

	if !strings.Contains(entry.Content, "Revenue policy") {
		t.Errorf("Expected heading text in content: %q", entry.Content)
	}

	if strings.Contains(entry.Content, "<p>") {
		t.Errorf("Expected markup stripped from content: %q", entry.Content)
	}

	if entry.Type() != "business_rule" {
		t.Errorf("Unexpected entry type: %s", entry.Type())
	}
}

func TestEntriesFromHTML_Empty(t *testing.T) {
	if _, err := EntriesFromHTML("<html><body></body></html>", "note"); err == nil {
		t.Error("Expected error for HTML without content")
	}
}

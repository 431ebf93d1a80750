package knowledge

// Entry is one curated knowledge document. Content is what gets embedded;
// metadata is carried along for filtering and reporting but never embedded.
type Entry struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Type returns the entry's knowledge category, if tagged
func (e *Entry) Type() string {
	return e.Metadata["type"]
}

// SearchResult pairs an entry with its similarity to the query
type SearchResult struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

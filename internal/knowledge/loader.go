package knowledge

import (
	"encoding/json"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	apperrors "github.com/askdb/askdb/internal/errors"
	"github.com/google/uuid"
)

// EntriesFromJSON parses a JSON array of knowledge entries. Entries without
// an id are assigned a random one so documents exported from other tools can
// be imported as-is.
func EntriesFromJSON(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeValidation,
			"failed to parse knowledge JSON")
	}

	for i := range entries {
		if strings.TrimSpace(entries[i].ID) == "" {
			entries[i].ID = uuid.New().String()
		}
	}

	return entries, nil
}

// EntriesFromHTML converts an HTML document into a single markdown knowledge
// entry. Runbooks and wiki exports usually arrive as HTML; markdown embeds
// much better than raw markup.
func EntriesFromHTML(html string, entryType string) ([]Entry, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeValidation,
			"failed to convert HTML document")
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil, apperrors.New(apperrors.ErrTypeValidation,
			"HTML document produced no content")
	}

	entry := Entry{
		ID:      uuid.New().String(),
		Content: markdown,
		Metadata: map[string]string{
			"type":   entryType,
			"source": "html_import",
		},
	}

	return []Entry{entry}, nil
}

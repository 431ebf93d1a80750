package generator

import (
	"strings"

	apperrors "github.com/askdb/askdb/internal/errors"
)

// readOnlyPrefixes are the statement forms allowed out of the generator.
// Everything else is refused before it gets near the database.
var readOnlyPrefixes = []string{"SELECT", "WITH", "SHOW", "EXPLAIN"}

// ExtractSQL cleans a model response into an executable statement. Models
// often wrap SQL in markdown fences despite instructions not to, so fences
// are stripped before validation.
func ExtractSQL(response string) (string, error) {
	sql := stripMarkdownFences(response)

	if sql == "" {
		return "", apperrors.New(apperrors.ErrTypeGeneration,
			"model returned no SQL")
	}

	if !isReadOnlyStatement(sql) {
		return "", apperrors.Newf(apperrors.ErrTypeGeneration,
			"model returned a non read-only statement: %s", firstLine(sql)).
			WithDetail("sql", sql)
	}

	return sql, nil
}

// stripMarkdownFences removes ```sql ... ``` wrappers and trims whitespace
func stripMarkdownFences(response string) string {
	sql := strings.TrimSpace(response)

	if strings.HasPrefix(sql, "```") {
		sql = strings.TrimPrefix(sql, "```sql")
		sql = strings.TrimPrefix(sql, "```")
		sql = strings.TrimSuffix(sql, "```")
		sql = strings.TrimSpace(sql)
	}

	return strings.TrimSuffix(sql, ";")
}

// isReadOnlyStatement checks the statement starts with an allowed verb
func isReadOnlyStatement(sql string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sql))

	for _, prefix := range readOnlyPrefixes {
		if strings.HasPrefix(upper, prefix+" ") || strings.HasPrefix(upper, prefix+"\n") || upper == prefix {
			return true
		}
	}

	return false
}

func firstLine(sql string) string {
	if i := strings.IndexByte(sql, '\n'); i >= 0 {
		return sql[:i]
	}
	return sql
}

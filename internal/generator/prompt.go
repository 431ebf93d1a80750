package generator

import (
	"fmt"
	"strings"

	"github.com/askdb/askdb/internal/database"
)

// BuildGenerationPrompt assembles the SQL generation prompt from the context
// document and the user's question. The model is told to return bare SQL;
// fenced responses are still tolerated downstream.
func BuildGenerationPrompt(contextDoc, question string) string {
	var b strings.Builder

	b.WriteString(contextDoc)
	b.WriteString("\n\nUSER QUESTION: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString("Using the database schema and relevant knowledge above, generate a single SQL query to answer this question.\n")
	b.WriteString("Return ONLY the SQL query, no explanations or markdown formatting.\n")
	b.WriteString("The query must be read-only: SELECT or WITH only.\n")
	b.WriteString("Make sure to follow any business rules mentioned in the knowledge.")

	return b.String()
}

// BuildExplanationPrompt assembles the prompt that turns query results into a
// natural language answer. At most maxRows rows are inlined so wide result
// sets do not blow up the prompt.
func BuildExplanationPrompt(question, sql string, result *database.ResultSet, maxRows int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user asked: %q\n\n", question)
	fmt.Fprintf(&b, "The SQL query generated was:\n%s\n\n", sql)
	b.WriteString("The results are:\n")
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(result.Columns, ", "))
	fmt.Fprintf(&b, "Row count: %d\n", result.RowCount())

	if result.RowCount() > 0 {
		b.WriteString("\nSample data:\n")

		rows := result.Rows
		if maxRows > 0 && len(rows) > maxRows {
			rows = rows[:maxRows]
		}

		for i, row := range rows {
			fmt.Fprintf(&b, "Row %d: %s\n", i+1, renderResultRow(result.Columns, row))
		}
	}

	b.WriteString("\nProvide a clear, concise natural language answer to the user's question based on these results. ")
	b.WriteString("Be specific with numbers and details.")

	return b.String()
}

// renderResultRow prints one result row with values in column order
func renderResultRow(columns []string, row map[string]interface{}) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s=%v", col, row[col]))
	}
	return strings.Join(parts, ", ")
}

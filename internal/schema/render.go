package schema

import (
	"fmt"
	"strings"
)

// Summary renders a table profile as the plain-text block handed to the
// context assembler. The layout is stable so prompt output stays diffable
// across runs against an unchanged database.
func Summary(profile *TableProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TABLE: %s (%d rows)\n", profile.TableName, profile.RowCount)
	b.WriteString("COLUMNS:\n")

	for _, col := range profile.Columns {
		fmt.Fprintf(&b, "  %s %s %s", col.Name, col.DeclaredType, nullability(col.Nullable))

		if values, ok := profile.CategoricalSummary[col.Name]; ok {
			fmt.Fprintf(&b, " [values: %s]", strings.Join(quoteValues(values), ", "))
		}

		b.WriteString("\n")
	}

	if len(profile.ForeignKeys) > 0 {
		b.WriteString("RELATIONSHIPS:\n")
		for _, fk := range profile.ForeignKeys {
			fmt.Fprintf(&b, "  %s.%s -> %s.%s\n",
				profile.TableName, fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
		}
	}

	if len(profile.SampleRows) > 0 {
		b.WriteString("SAMPLE ROWS:\n")
		for _, row := range profile.SampleRows {
			b.WriteString("  " + renderRow(profile.Columns, row) + "\n")
		}
	}

	return b.String()
}

// SummaryAll renders all profiles separated by blank lines, in input order
func SummaryAll(profiles []*TableProfile) string {
	parts := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		parts = append(parts, Summary(profile))
	}
	return strings.Join(parts, "\n")
}

func nullability(nullable bool) string {
	if nullable {
		return "NULL"
	}
	return "NOT NULL"
}

func quoteValues(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return quoted
}

// renderRow prints one sample row with values in declared column order
func renderRow(columns []ColumnProfile, row map[string]interface{}) string {
	pairs := make([]string, 0, len(columns))

	for _, col := range columns {
		value, ok := row[col.Name]
		if !ok {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%v", col.Name, value))
	}

	return strings.Join(pairs, " | ")
}

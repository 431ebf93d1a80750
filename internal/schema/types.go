package schema

// ColumnProfile describes a single column of a profiled table
type ColumnProfile struct {
	Name          string `json:"name"`
	DeclaredType  string `json:"declared_type"`
	Nullable      bool   `json:"nullable"`
	DistinctCount int64  `json:"distinct_count"`
	IsCategorical bool   `json:"is_categorical"`
}

// ForeignKey records a reference from one column to another table
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// TableProfile captures everything the profiler learns about one table:
// structure, cardinality, the full value set of categorical columns, and a
// randomized sample of rows.
type TableProfile struct {
	TableName          string                   `json:"table_name"`
	RowCount           int64                    `json:"row_count"`
	Columns            []ColumnProfile          `json:"columns"`
	CategoricalSummary map[string][]string      `json:"categorical_summary"`
	ForeignKeys        []ForeignKey             `json:"foreign_keys,omitempty"`
	SampleRows         []map[string]interface{} `json:"sample_rows"`
}

// Column looks up a column profile by name
func (p *TableProfile) Column(name string) (ColumnProfile, bool) {
	for _, col := range p.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnProfile{}, false
}

// CategoricalColumns returns the names of categorical columns in declaration order
func (p *TableProfile) CategoricalColumns() []string {
	var names []string
	for _, col := range p.Columns {
		if col.IsCategorical {
			names = append(names, col.Name)
		}
	}
	return names
}

package schema

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/database"
	apperrors "github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/logging"
)

// identifierPattern restricts table and column names to what we will quote
// into generated SQL. Anything outside this set is refused rather than escaped.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Profiler inspects live database tables and produces TableProfiles. A column
// is considered categorical when its distinct count stays under both the
// absolute and the row-ratio threshold, and only for enumerable declared
// types; ids and free text never qualify.
type Profiler struct {
	db  *database.DB
	cfg config.ProfilerConfig
}

// NewProfiler creates a profiler over an open database
func NewProfiler(db *database.DB, cfg config.ProfilerConfig) *Profiler {
	return &Profiler{db: db, cfg: cfg}
}

// ListTables returns user table names in the connected database
func (p *Profiler) ListTables(ctx context.Context) ([]string, error) {
	query := `SELECT table_name FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		AND table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_name`

	rows, err := p.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeProfiling, "failed to list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrTypeProfiling, "failed to scan table name")
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrTypeProfiling, "failed to list tables")
	}

	return tables, nil
}

// Profile builds a full profile of a single table
func (p *Profiler) Profile(ctx context.Context, tableName string) (*TableProfile, error) {
	if !identifierPattern.MatchString(tableName) {
		return nil, apperrors.Newf(apperrors.ErrTypeValidation,
			"invalid table name: %q", tableName)
	}

	columns, err := p.fetchColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, apperrors.Newf(apperrors.ErrTypeProfiling,
			"table not found: %s", tableName)
	}

	rowCount, err := p.fetchRowCount(ctx, tableName)
	if err != nil {
		return nil, err
	}

	profile := &TableProfile{
		TableName:          tableName,
		RowCount:           rowCount,
		Columns:            columns,
		CategoricalSummary: make(map[string][]string),
	}

	for i := range profile.Columns {
		col := &profile.Columns[i]

		if !isEnumerableType(col.DeclaredType) || rowCount == 0 {
			continue
		}

		distinct, err := p.fetchDistinctCount(ctx, tableName, col.Name)
		if err != nil {
			return nil, err
		}
		col.DistinctCount = distinct

		if !p.isCategorical(distinct, rowCount) {
			continue
		}

		values, err := p.fetchCategoricalValues(ctx, tableName, col.Name, rowCount)
		if err != nil {
			return nil, err
		}

		col.IsCategorical = true
		profile.CategoricalSummary[col.Name] = values
	}

	foreignKeys, err := p.fetchForeignKeys(ctx, tableName)
	if err != nil {
		// Some engines expose incomplete constraint views; relationships
		// enrich the profile but are not required for it.
		logging.Debugf("Could not read foreign keys of %s: %v", tableName, err)
	} else {
		profile.ForeignKeys = foreignKeys
	}

	samples, err := p.fetchSampleRows(ctx, tableName)
	if err != nil {
		return nil, err
	}
	profile.SampleRows = samples

	return profile, nil
}

// ProfileAll profiles every user table, skipping tables that fail with a
// warning so one broken view does not block the rest of the schema.
func (p *Profiler) ProfileAll(ctx context.Context) ([]*TableProfile, error) {
	tables, err := p.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	var profiles []*TableProfile

	for _, table := range tables {
		profile, err := p.Profile(ctx, table)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrTypeTimeout) {
				return nil, err
			}
			logging.Warnf("Skipping table %s: %v", table, err)
			continue
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		return nil, apperrors.New(apperrors.ErrTypeProfiling,
			"no tables could be profiled")
	}

	return profiles, nil
}

// isCategorical applies the distinct-count thresholds
func (p *Profiler) isCategorical(distinctCount, rowCount int64) bool {
	if distinctCount == 0 {
		return false
	}

	if distinctCount < int64(p.cfg.CategoricalMaxDistinct) {
		return true
	}

	return float64(distinctCount) < p.cfg.CategoricalMaxRatio*float64(rowCount)
}

// categoricalBound is the smallest distinct count that disqualifies a column
// given the current row count. Both thresholds are strict, so a column
// holding exactly the bound is no longer categorical.
func (p *Profiler) categoricalBound(rowCount int64) int64 {
	bound := int64(p.cfg.CategoricalMaxDistinct)

	if ratioBound := int64(math.Ceil(p.cfg.CategoricalMaxRatio * float64(rowCount))); ratioBound > bound {
		bound = ratioBound
	}

	return bound
}

func (p *Profiler) fetchColumns(ctx context.Context, tableName string) ([]ColumnProfile, error) {
	query := `SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`

	rows, err := p.db.Conn().QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to read columns of %s", tableName)
	}
	defer rows.Close()

	var columns []ColumnProfile

	for rows.Next() {
		var col ColumnProfile
		var nullable string

		if err := rows.Scan(&col.Name, &col.DeclaredType, &nullable); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
				"failed to scan column of %s", tableName)
		}

		col.Nullable = strings.EqualFold(nullable, "YES")
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to read columns of %s", tableName)
	}

	return columns, nil
}

func (p *Profiler) fetchRowCount(ctx context.Context, tableName string) (int64, error) {
	var count int64

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(tableName))
	if err := p.db.Conn().QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to count rows of %s", tableName)
	}

	return count, nil
}

func (p *Profiler) fetchDistinctCount(ctx context.Context, tableName, columnName string) (int64, error) {
	if !identifierPattern.MatchString(columnName) {
		return 0, apperrors.Newf(apperrors.ErrTypeValidation,
			"invalid column name: %q", columnName)
	}

	var count int64

	query := fmt.Sprintf(`SELECT COUNT(DISTINCT %s) FROM %s`,
		quoteIdent(columnName), quoteIdent(tableName))
	if err := p.db.Conn().QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to count distinct values of %s.%s", tableName, columnName)
	}

	return count, nil
}

// fetchCategoricalValues enumerates the full value set of a categorical
// column. Enumeration reaching the bound means the column grew out of
// categorical range after the distinct count was taken, which is reported
// instead of silently truncated.
func (p *Profiler) fetchCategoricalValues(ctx context.Context, tableName, columnName string, rowCount int64) ([]string, error) {
	bound := p.categoricalBound(rowCount)

	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s LIMIT %d`,
		quoteIdent(columnName), quoteIdent(tableName),
		quoteIdent(columnName), quoteIdent(columnName), bound)

	rows, err := p.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to enumerate values of %s.%s", tableName, columnName)
	}
	defer rows.Close()

	var values []string

	for rows.Next() {
		var value interface{}
		if err := rows.Scan(&value); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
				"failed to scan value of %s.%s", tableName, columnName)
		}
		values = append(values, stringifyValue(value))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to enumerate values of %s.%s", tableName, columnName)
	}

	if int64(len(values)) >= bound {
		return nil, apperrors.Newf(apperrors.ErrTypeProfiling,
			"column %s.%s exceeded categorical bound during enumeration, data changed under the profiler",
			tableName, columnName)
	}

	return values, nil
}

// fetchForeignKeys reads outgoing references from the standard constraint
// views, which both supported engines expose.
func (p *Profiler) fetchForeignKeys(ctx context.Context, tableName string) ([]ForeignKey, error) {
	query := `SELECT kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_name = $1
		ORDER BY kcu.column_name`

	rows, err := p.db.Conn().QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []ForeignKey

	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Column, &fk.ReferencedTable, &fk.ReferencedColumn); err != nil {
			return nil, err
		}
		keys = append(keys, fk)
	}

	return keys, rows.Err()
}

func (p *Profiler) fetchSampleRows(ctx context.Context, tableName string) ([]map[string]interface{}, error) {
	if p.cfg.SampleDataSize <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY RANDOM() LIMIT %d`,
		quoteIdent(tableName), p.cfg.SampleDataSize)

	result, err := p.db.ExecuteReadOnly(ctx, query)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeProfiling,
			"failed to sample rows of %s", tableName)
	}

	return result.Rows, nil
}

// stringifyValue renders a scanned value for the categorical summary
func stringifyValue(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quoteIdent wraps a validated identifier in double quotes
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// isEnumerableType reports whether a declared type can hold a bounded value
// vocabulary worth enumerating. Numeric, temporal, and binary columns are
// excluded even when low-cardinality; their values rarely help SQL generation.
func isEnumerableType(declaredType string) bool {
	t := strings.ToLower(declaredType)

	switch {
	case strings.Contains(t, "char"), // varchar, character varying, bpchar
		strings.Contains(t, "text"),
		strings.Contains(t, "enum"),
		strings.Contains(t, "bool"):
		return true
	default:
		return false
	}
}

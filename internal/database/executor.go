package database

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/askdb/askdb/internal/errors"
)

// ResultSet holds the outcome of a read-only query in column order
type ResultSet struct {
	Columns []string
	Rows    []map[string]interface{}
}

// RowCount returns the number of rows fetched
func (r *ResultSet) RowCount() int {
	return len(r.Rows)
}

// ExecuteReadOnly runs a query inside a read-only transaction and collects
// the full result set. The transaction is always rolled back; nothing this
// path runs is allowed to mutate the database even if the driver fails to
// enforce the read-only flag.
func (db *DB) ExecuteReadOnly(ctx context.Context, query string) (*ResultSet, error) {
	tx, err := db.beginReadOnly(ctx)
	if err != nil {
		return nil, wrapExecError(err, query, "failed to begin transaction")
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapExecError(err, query, "query failed")
	}
	defer rows.Close()

	result, err := collectRows(rows)
	if err != nil {
		return nil, wrapExecError(err, query, "failed to read results")
	}

	return result, nil
}

// beginReadOnly starts a read-only transaction, falling back to a plain
// transaction for drivers that reject the read-only option.
func (db *DB) beginReadOnly(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err == nil {
		return tx, nil
	}

	return db.conn.BeginTx(ctx, nil)
}

// collectRows materializes all rows as column-name keyed maps
func collectRows(rows *sql.Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &ResultSet{Columns: columns}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// normalizeValue converts driver byte slices to strings for display
func normalizeValue(value interface{}) interface{} {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}

// wrapExecError classifies execution failures, distinguishing timeouts from
// database errors, and attaches the failing SQL for diagnostics.
func wrapExecError(err error, query, message string) error {
	errType := apperrors.ErrTypeQueryExecution
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		errType = apperrors.ErrTypeTimeout
	}

	return apperrors.Wrap(err, errType, message).WithDetail("sql", query)
}

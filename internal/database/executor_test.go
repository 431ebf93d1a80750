package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	apperrors "github.com/askdb/askdb/internal/errors"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return NewFromConn(conn, "postgres"), mock
}

func TestExecuteReadOnly_CollectsRows(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT country, COUNT").WillReturnRows(
		sqlmock.NewRows([]string{"country", "count"}).
			AddRow("US", 42).
			AddRow("DE", 17),
	)
	mock.ExpectRollback()

	result, err := db.ExecuteReadOnly(context.Background(),
		"SELECT country, COUNT(*) FROM customers GROUP BY country")
	if err != nil {
		t.Fatalf("Failed to execute query: %v", err)
	}

	if len(result.Columns) != 2 || result.Columns[0] != "country" {
		t.Errorf("Unexpected columns: %v", result.Columns)
	}

	if result.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", result.RowCount())
	}

	if result.Rows[0]["country"] != "US" {
		t.Errorf("Unexpected first row: %v", result.Rows[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestExecuteReadOnly_EmptyResult(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}),
	)
	mock.ExpectRollback()

	result, err := db.ExecuteReadOnly(context.Background(),
		"SELECT id, name FROM products WHERE stock < 0")
	if err != nil {
		t.Fatalf("Failed to execute query: %v", err)
	}

	if result.RowCount() != 0 {
		t.Errorf("Expected empty result, got %d rows", result.RowCount())
	}

	if len(result.Columns) != 2 {
		t.Errorf("Expected column names even for empty results, got %v", result.Columns)
	}
}

func TestExecuteReadOnly_QueryError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(
		&testDriverError{msg: `relation "custmers" does not exist`},
	)
	mock.ExpectRollback()

	query := "SELECT * FROM custmers"

	_, err := db.ExecuteReadOnly(context.Background(), query)
	if err == nil {
		t.Fatal("Expected error for invalid query")
	}

	if !apperrors.IsType(err, apperrors.ErrTypeQueryExecution) {
		t.Errorf("Expected query execution error type, got %s", apperrors.GetType(err))
	}

	if apperrors.GetDetail(err, "sql") != query {
		t.Errorf("Expected failing SQL in error details, got %q", apperrors.GetDetail(err, "sql"))
	}
}

func TestExecuteReadOnly_Timeout(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := db.ExecuteReadOnly(ctx, "SELECT pg_sleep(300)")
	if err == nil {
		t.Fatal("Expected timeout error")
	}

	if !apperrors.IsType(err, apperrors.ErrTypeTimeout) {
		t.Errorf("Expected timeout error type, got %s", apperrors.GetType(err))
	}
}

func TestExecuteReadOnly_ByteSlicesBecomeStrings(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow([]byte("Alice")),
	)
	mock.ExpectRollback()

	result, err := db.ExecuteReadOnly(context.Background(), "SELECT name FROM customers")
	if err != nil {
		t.Fatalf("Failed to execute query: %v", err)
	}

	if result.Rows[0]["name"] != "Alice" {
		t.Errorf("Expected byte slice converted to string, got %T", result.Rows[0]["name"])
	}
}

type testDriverError struct {
	msg string
}

func (e *testDriverError) Error() string {
	return e.msg
}

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/askdb/askdb/internal/config"
	apperrors "github.com/askdb/askdb/internal/errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
)

// DB wraps a database connection with the settings needed by the profiler
// and the executor.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the configured database and verifies the connection
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	driverName, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeDatabase,
			"failed to open %s database", cfg.Driver)
	}

	conn.SetMaxOpenConns(cfg.MaxConnections)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime(cfg.ConnMaxLifetime))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, apperrors.Wrapf(err, apperrors.ErrTypeDatabase,
			"failed to connect to %s database", cfg.Driver)
	}

	return &DB{conn: conn, driver: cfg.Driver}, nil
}

// connMaxLifetime parses the configured lifetime, falling back to 30m
func connMaxLifetime(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// sqlDriverName maps the configured driver to the registered sql driver
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "pgx", nil
	case "duckdb":
		return "duckdb", nil
	default:
		return "", apperrors.Newf(apperrors.ErrTypeConfig,
			"unsupported database driver: %s", driver)
	}
}

// NewFromConn wraps an existing connection, used by tests with sqlmock
func NewFromConn(conn *sql.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

// Conn exposes the underlying connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver reports the configured driver name
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

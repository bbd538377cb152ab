// Package storage persists trades and price observations in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tradepulse/internal/infrastructure"
)

// DB wraps the SQLite handle for the trade and price tables.
type DB struct {
	sql    *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations. Use ":memory:" for an ephemeral database.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{
		sql:    sqlDB,
		logger: infrastructure.WithComponent(logger, "storage"),
	}

	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return d, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping verifies the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// migrate creates the schema if it does not exist. Dates are stored as
// ISO 8601 text, which sorts chronologically.
func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			trade_date  TEXT    NOT NULL,
			ticker      TEXT    NOT NULL,
			quantity    INTEGER NOT NULL,
			price       REAL    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_trades_ticker_date ON trades (ticker, trade_date);

		CREATE TABLE IF NOT EXISTS prices (
			trade_date  TEXT NOT NULL,
			ticker      TEXT NOT NULL,
			close_price REAL NOT NULL,
			PRIMARY KEY (ticker, trade_date)
		);
	`)
	return err
}

// Filter narrows list queries. Zero values mean no restriction.
type Filter struct {
	Ticker string
	From   time.Time
	To     time.Time
}

// whereClause builds the WHERE fragment and arguments for a filter.
func (f Filter) whereClause(dateColumn string) (string, []interface{}) {
	clause := ""
	var args []interface{}

	add := func(cond string, arg interface{}) {
		if clause == "" {
			clause = " WHERE " + cond
		} else {
			clause += " AND " + cond
		}
		args = append(args, arg)
	}

	if f.Ticker != "" {
		add("ticker = ?", f.Ticker)
	}
	if !f.From.IsZero() {
		add(dateColumn+" >= ?", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		add(dateColumn+" <= ?", f.To.Format("2006-01-02"))
	}

	return clause, args
}

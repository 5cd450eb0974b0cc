package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const defaultBusyTimeout = 5 * time.Second

// executor is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// repositories can run either standalone or inside a transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteConnection opens (creating if necessary) the donations database
// at the given path and pings it to ensure it is usable.
//
// The handle is capped at a single open connection: the store has one
// interactive user and SQLite serializes writers anyway, so one scoped
// connection with busy_timeout replaces any fixed pool of long-lived
// connections.
func NewSQLiteConnection(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path, defaultBusyTimeout/time.Millisecond)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.Ping(); err != nil {
		db.Close() // Close the handle if ping fails
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

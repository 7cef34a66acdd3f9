// Package duckdb persists raw player-season records in DuckDB.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Client manages DuckDB connections.
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens the database at path. An empty path or ":memory:" opens
// an in-memory database.
func NewClient(ctx context.Context, path string) (*Client, error) {
	dsn := path
	if dsn == ":memory:" {
		dsn = ""
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	return &Client{db: db, path: path}, nil
}

// DB returns the underlying sql.DB connection.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Path returns the database path the client was opened with.
func (c *Client) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Exec executes a statement without returning rows.
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.db.ExecContext(ctx, query, args...)
	return err
}

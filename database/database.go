// Package database provides the in-memory e-commerce store used by the
// question-answering agent.
//
// Information Hiding:
// - SQLite connection management hidden behind DB
// - Schema and seed data encapsulated as package constants
// - Execution failures converted to result payloads, never propagated

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaDescription is the prompt-facing description of the store's schema.
const SchemaDescription = `Database Schema:
- customers(id INTEGER PRIMARY KEY, name TEXT, email TEXT, country TEXT, created_at TEXT)
- products(id INTEGER PRIMARY KEY, name TEXT, category TEXT, price REAL, stock INTEGER)
- orders(id INTEGER PRIMARY KEY, customer_id INTEGER FK->customers, product_id INTEGER FK->products, quantity INTEGER, total REAL, status TEXT, order_date TEXT)`

// DB is a seeded in-memory SQLite store. Every Create() call yields an
// independent store with identical content.
type DB struct {
	db *sql.DB
}

// Create returns a fresh in-memory store pre-populated with the fixed
// schema and seed rows. Content is deterministic on every call.
func Create() (*DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// Each pooled connection would otherwise get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	store := &DB{db: db}
	if err := store.seed(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the store.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) seed() error {
	if _, err := d.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := d.db.Exec(seedSQL); err != nil {
		return fmt.Errorf("failed to insert seed data: %w", err)
	}
	return nil
}

// QueryResult is the outcome of executing a query: either tabular data
// (Columns/Rows/RowCount) or Error, never both.
type QueryResult struct {
	Columns  []string
	Rows     [][]any
	RowCount int
	Error    string
}

// OK reports whether the query executed successfully.
func (r QueryResult) OK() bool {
	return r.Error == ""
}

// MarshalJSON encodes exactly one of the two shapes:
// {"columns": [...], "rows": [...], "row_count": n} or {"error": "..."}.
func (r QueryResult) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	columns := r.Columns
	if columns == nil {
		columns = []string{}
	}
	rows := r.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return json.Marshal(struct {
		Columns  []string `json:"columns"`
		Rows     [][]any  `json:"rows"`
		RowCount int      `json:"row_count"`
	}{columns, rows, r.RowCount})
}

// Execute runs sql against the store. Execution failures (bad syntax,
// unknown table, empty statement) are caught and surfaced in the result's
// Error field so the caller can explain them in natural language.
// There is no write-protection at this layer; SELECT-only is a prompt policy.
func (d *DB) Execute(ctx context.Context, query string) QueryResult {
	if strings.TrimSpace(query) == "" {
		return QueryResult{Error: "cannot execute empty query"}
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return QueryResult{Error: err.Error()}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{Error: err.Error()}
	}

	result := QueryResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return QueryResult{Error: err.Error()}
		}
		for i, v := range values {
			// The driver hands TEXT back as []byte; keep rows printable.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{Error: err.Error()}
	}

	result.RowCount = len(result.Rows)
	return result
}

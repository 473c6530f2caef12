package database

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func mustCreate(t *testing.T) *DB {
	t.Helper()
	db, err := Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExecuteSelectShape(t *testing.T) {
	db := mustCreate(t)
	ctx := context.Background()

	result := db.Execute(ctx, "SELECT id, name, email FROM customers ORDER BY id")
	if !result.OK() {
		t.Fatalf("Execute failed: %s", result.Error)
	}

	if result.RowCount != len(result.Rows) {
		t.Errorf("RowCount %d != len(Rows) %d", result.RowCount, len(result.Rows))
	}
	if result.RowCount != 8 {
		t.Errorf("expected 8 customers, got %d", result.RowCount)
	}
	if len(result.Columns) != 3 {
		t.Errorf("expected 3 columns, got %d", len(result.Columns))
	}
	for i, row := range result.Rows {
		if len(row) != len(result.Columns) {
			t.Errorf("row %d has %d values, want %d", i, len(row), len(result.Columns))
		}
	}
	if result.Columns[0] != "id" || result.Columns[1] != "name" {
		t.Errorf("unexpected columns: %v", result.Columns)
	}
}

func TestExecuteInvalidSQLReturnsErrorPayload(t *testing.T) {
	db := mustCreate(t)
	ctx := context.Background()

	for _, query := range []string{
		"SELEC * FROM customers",
		"SELECT * FROM no_such_table",
		"SELECT missing_column FROM products",
	} {
		result := db.Execute(ctx, query)
		if result.OK() {
			t.Errorf("expected error for %q, got success", query)
			continue
		}
		if result.Columns != nil || result.Rows != nil || result.RowCount != 0 {
			t.Errorf("error result for %q should carry no tabular data: %+v", query, result)
		}
	}
}

func TestExecuteEmptyQuery(t *testing.T) {
	db := mustCreate(t)

	result := db.Execute(context.Background(), "   ")
	if result.OK() {
		t.Fatal("expected error for empty query")
	}
	if !strings.Contains(result.Error, "empty") {
		t.Errorf("expected empty-query error, got %q", result.Error)
	}
}

func TestQueryResultJSONShapes(t *testing.T) {
	db := mustCreate(t)
	ctx := context.Background()

	ok := db.Execute(ctx, "SELECT name FROM products WHERE id = 1")
	data, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := decoded["error"]; present {
		t.Errorf("success result must not contain error key: %s", data)
	}
	for _, key := range []string{"columns", "rows", "row_count"} {
		if _, present := decoded[key]; !present {
			t.Errorf("success result missing key %q: %s", key, data)
		}
	}

	bad := db.Execute(ctx, "SELECT * FROM nowhere")
	data, err = json.Marshal(bad)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded = nil
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded) != 1 {
		t.Errorf("error result must contain only the error key: %s", data)
	}
	if _, present := decoded["error"]; !present {
		t.Errorf("error result missing error key: %s", data)
	}
}

func TestCreateYieldsIndependentStores(t *testing.T) {
	ctx := context.Background()
	first := mustCreate(t)
	second := mustCreate(t)

	// Mutate the first store; the second must not see it.
	if result := first.Execute(ctx, "DELETE FROM orders"); !result.OK() {
		t.Fatalf("delete failed: %s", result.Error)
	}

	count := func(db *DB) int {
		result := db.Execute(ctx, "SELECT COUNT(*) FROM orders")
		if !result.OK() {
			t.Fatalf("count failed: %s", result.Error)
		}
		n, ok := result.Rows[0][0].(int64)
		if !ok {
			t.Fatalf("unexpected count type %T", result.Rows[0][0])
		}
		return int(n)
	}

	if n := count(first); n != 0 {
		t.Errorf("expected 0 orders in mutated store, got %d", n)
	}
	if n := count(second); n != 12 {
		t.Errorf("expected 12 seed orders in fresh store, got %d", n)
	}
}

func TestSeedDataFacts(t *testing.T) {
	db := mustCreate(t)
	ctx := context.Background()

	// Alice Johnson placed orders 1, 2 and 11.
	result := db.Execute(ctx, `
		SELECT COUNT(*) FROM orders o
		JOIN customers c ON o.customer_id = c.id
		WHERE c.name = 'Alice Johnson'`)
	if !result.OK() {
		t.Fatalf("query failed: %s", result.Error)
	}
	if result.RowCount != 1 {
		t.Fatalf("expected 1 row, got %d", result.RowCount)
	}
	if n := result.Rows[0][0].(int64); n != 3 {
		t.Errorf("expected Alice Johnson to have 3 orders, got %d", n)
	}

	result = db.Execute(ctx, "SELECT name, price FROM products ORDER BY price DESC LIMIT 1")
	if !result.OK() {
		t.Fatalf("query failed: %s", result.Error)
	}
	if name := result.Rows[0][0].(string); name != "Laptop Pro" {
		t.Errorf("expected most expensive product 'Laptop Pro', got %q", name)
	}
	if price := result.Rows[0][1].(float64); price != 1299.99 {
		t.Errorf("expected price 1299.99, got %v", price)
	}
}

func TestReferentialIntegrityOfSeedData(t *testing.T) {
	db := mustCreate(t)

	result := db.Execute(context.Background(), `
		SELECT COUNT(*) FROM orders o
		WHERE o.customer_id NOT IN (SELECT id FROM customers)
		   OR o.product_id NOT IN (SELECT id FROM products)`)
	if !result.OK() {
		t.Fatalf("query failed: %s", result.Error)
	}
	if n := result.Rows[0][0].(int64); n != 0 {
		t.Errorf("%d orders reference missing customers or products", n)
	}
}

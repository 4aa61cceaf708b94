package bridge

import (
	"context"
	"testing"
)

// TestExec verifies single-statement execution through the cache.
func TestExec(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.ExecScript(ctx, `
		CREATE TABLE tasks (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)
	`); err != nil {
		t.Fatalf("ExecScript() CREATE error = %v", err)
	}

	result, err := db.Exec(ctx, "INSERT INTO tasks (name) VALUES (?)", "first")
	if err != nil {
		t.Fatalf("Exec() INSERT error = %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId() error = %v", err)
	}
	if id != 1 {
		t.Errorf("LastInsertId() = %v, want 1", id)
	}
}

// TestStatementCaching verifies statements are prepared once and reused.
func TestStatementCaching(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.ExecScript(ctx, "CREATE TABLE tasks (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("ExecScript() error = %v", err)
	}

	const insert = "INSERT INTO tasks (name) VALUES (?)"
	for i := 0; i < 3; i++ {
		if _, err := db.Exec(ctx, insert, "task"); err != nil {
			t.Fatalf("Exec() #%d error = %v", i, err)
		}
	}

	// Three executions of the same text share one prepared statement.
	if got := db.StatementCount(); got != 1 {
		t.Errorf("StatementCount() = %d, want 1", got)
	}

	if _, err := db.Exec(ctx, "DELETE FROM tasks WHERE name = ?", "task"); err != nil {
		t.Fatalf("Exec() DELETE error = %v", err)
	}
	if got := db.StatementCount(); got != 2 {
		t.Errorf("StatementCount() = %d, want 2 after second distinct statement", got)
	}
}

// TestQuery verifies multi-row queries through the cache.
func TestQuery(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.ExecScript(ctx, `
		CREATE TABLE tasks (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO tasks (name) VALUES ('a');
		INSERT INTO tasks (name) VALUES ('b');
	`); err != nil {
		t.Fatalf("ExecScript() error = %v", err)
	}

	rows, err := db.Query(ctx, "SELECT name FROM tasks ORDER BY id")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	defer rows.Close() //nolint:errcheck // Test cleanup

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err() = %v", err)
	}

	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Query() returned %v, want [a b]", names)
	}
}

// TestQueryRowDeferredError verifies preparation errors surface on Scan.
func TestQueryRowDeferredError(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	var v int
	err := db.QueryRow(context.Background(), "SELECT missing FROM nowhere").Scan(&v)
	if err == nil {
		t.Error("Scan() expected error for invalid query")
	}
}

// TestExecScriptMultiStatement verifies batch scripts run to completion.
func TestExecScriptMultiStatement(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.ExecScript(ctx, `
		CREATE TABLE a (id INTEGER PRIMARY KEY);
		CREATE TABLE b (id INTEGER PRIMARY KEY);
		INSERT INTO a (id) VALUES (1);
	`); err != nil {
		t.Fatalf("ExecScript() error = %v", err)
	}

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM a").Scan(&count); err != nil {
		t.Fatalf("SELECT error = %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row in a, got %d", count)
	}
}

package bridge

import (
	"context"
	"testing"
)

const testSchemaV1 = `
CREATE TABLE tasks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE INDEX idx_tasks_name ON tasks (name);
`

// TestUnsafeResetDatabase verifies the destructive reset path.
func TestUnsafeResetDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh database", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if err := db.UnsafeResetDatabase(ctx, testSchemaV1, 1); err != nil {
			t.Fatalf("UnsafeResetDatabase() error = %v", err)
		}

		version, err := db.SchemaVersion(ctx)
		if err != nil {
			t.Fatalf("SchemaVersion() error = %v", err)
		}
		if version != 1 {
			t.Errorf("SchemaVersion() = %d, want 1", version)
		}

		if !tableExists(t, db, "tasks") {
			t.Error("tasks table missing after reset")
		}
	})

	t.Run("wipes data and record cache", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if err := db.UnsafeResetDatabase(ctx, testSchemaV1, 1); err != nil {
			t.Fatalf("UnsafeResetDatabase() error = %v", err)
		}
		if _, err := db.Exec(ctx, "INSERT INTO tasks (id, name) VALUES (?, ?)", "t1", "first"); err != nil {
			t.Fatalf("Exec() error = %v", err)
		}
		db.MarkAsCached("tasks#t1")

		if err := db.UnsafeResetDatabase(ctx, testSchemaV1, 1); err != nil {
			t.Fatalf("second UnsafeResetDatabase() error = %v", err)
		}

		var count int
		if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
			t.Fatalf("SELECT error = %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty tasks table after reset, got %d rows", count)
		}

		if db.IsCached("tasks#t1") {
			t.Error("record cache not cleared by reset")
		}
	})

	t.Run("schema failure keeps stored version", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if err := db.UnsafeResetDatabase(ctx, testSchemaV1, 1); err != nil {
			t.Fatalf("UnsafeResetDatabase() error = %v", err)
		}

		err := db.UnsafeResetDatabase(ctx, "CREATE TABLE broken (;", 9)
		if err == nil {
			t.Fatal("UnsafeResetDatabase() expected error for invalid schema")
		}

		version, verr := db.SchemaVersion(ctx)
		if verr != nil {
			t.Fatalf("SchemaVersion() error = %v", verr)
		}
		if version != 1 {
			t.Errorf("SchemaVersion() = %d after failed reset, want 1", version)
		}

		// The wipe and vacuum run before the transactional block and
		// cannot be undone: the old schema is gone even though the
		// version stamp rolled back. Callers must retry the reset.
		if tableExists(t, db, "tasks") {
			t.Error("expected schema wiped after failed reset")
		}
	})

	t.Run("recoverable by retrying", func(t *testing.T) {
		db := openTestDB(t)
		defer db.Close() //nolint:errcheck // Test cleanup

		if err := db.UnsafeResetDatabase(ctx, "CREATE TABLE broken (;", 1); err == nil {
			t.Fatal("expected error for invalid schema")
		}
		if err := db.UnsafeResetDatabase(ctx, testSchemaV1, 1); err != nil {
			t.Fatalf("retry UnsafeResetDatabase() error = %v", err)
		}
		if !tableExists(t, db, "tasks") {
			t.Error("tasks table missing after retried reset")
		}
	})
}

// tableExists reports whether a table is present in sqlite_master.
func tableExists(t *testing.T, db *Database, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	return count > 0
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile writes content into a temp file and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// testConfig writes a minimal config pointing at a database in dir.
func testConfig(t *testing.T, dir string) string {
	t.Helper()

	return writeFile(t, dir, "config.yaml", `
database:
  path: `+filepath.Join(dir, "test.db")+`
logging:
  level: error
`)
}

// TestRunArgumentErrors verifies the CLI rejects malformed invocations.
func TestRunArgumentErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no command", func(t *testing.T) {
		dir := t.TempDir()
		err := run(ctx, []string{"-config", testConfig(t, dir)})
		if err == nil || !strings.Contains(err.Error(), "no command") {
			t.Errorf("run() error = %v, want no command error", err)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		dir := t.TempDir()
		err := run(ctx, []string{"-config", testConfig(t, dir), "destroy"})
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("run() error = %v, want unknown command error", err)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		err := run(ctx, []string{"-config", "/nonexistent/config.yaml", "version"})
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Errorf("run() error = %v, want config load error", err)
		}
	})

	t.Run("reset without flags", func(t *testing.T) {
		dir := t.TempDir()
		err := run(ctx, []string{"-config", testConfig(t, dir), "reset"})
		if err == nil || !strings.Contains(err.Error(), "reset requires") {
			t.Errorf("run() error = %v, want reset usage error", err)
		}
	})

	t.Run("migrate without flags", func(t *testing.T) {
		dir := t.TempDir()
		err := run(ctx, []string{"-config", testConfig(t, dir), "migrate"})
		if err == nil || !strings.Contains(err.Error(), "migrate requires") {
			t.Errorf("run() error = %v, want migrate usage error", err)
		}
	})
}

// TestRunSchemaLifecycle drives a reset and a migration through the real
// command surface against a temp database.
func TestRunSchemaLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)

	schemaPath := writeFile(t, dir, "schema.sql", `
CREATE TABLE tasks (id TEXT PRIMARY KEY, name TEXT NOT NULL);
`)
	migrationPath := writeFile(t, dir, "migration.sql", `
ALTER TABLE tasks ADD COLUMN done INTEGER NOT NULL DEFAULT 0;
`)

	if err := run(ctx, []string{"-config", cfgPath, "version"}); err != nil {
		t.Fatalf("version on fresh database: %v", err)
	}

	if err := run(ctx, []string{"-config", cfgPath, "reset", "-schema", schemaPath, "-to", "1"}); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if err := run(ctx, []string{"-config", cfgPath, "migrate", "-sql", migrationPath, "-from", "1", "-to", "2"}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// A second run with the same -from must be rejected.
	err := run(ctx, []string{"-config", cfgPath, "migrate", "-sql", migrationPath, "-from", "1", "-to", "2"})
	if err == nil {
		t.Fatal("repeated migration expected version mismatch error")
	}
}

// TestGetConfigPath verifies environment override of the config location.
func TestGetConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("LITEBRIDGE_CONFIG", "")
		if got := getConfigPath(); got != defaultConfigPath {
			t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("LITEBRIDGE_CONFIG", "/etc/litebridge/config.yaml")
		if got := getConfigPath(); got != "/etc/litebridge/config.yaml" {
			t.Errorf("getConfigPath() = %q, want env value", got)
		}
	})
}

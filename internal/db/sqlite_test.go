package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"studydesk/backend/migrations"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	database, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer database.Close()

	first, err := RunMigrations(database, migrations.FS)
	if err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if len(first) != 1 || first[0] != "0001_init.sql" {
		t.Fatalf("unexpected applied migrations %v", first)
	}
	second, err := RunMigrations(database, migrations.FS)
	if err != nil {
		t.Fatalf("rerun migrations: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected nothing applied on rerun, got %v", second)
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", count)
	}

	if _, err := database.Exec(`SELECT id FROM weekly_review_items LIMIT 1`); err != nil {
		t.Fatalf("expected weekly_review_items table: %v", err)
	}
}

func TestRunMigrationsRollsBackBrokenFile(t *testing.T) {
	database, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer database.Close()

	broken := fstest.MapFS{
		"0001_ok.sql":     {Data: []byte(`CREATE TABLE ok_table (id TEXT);`)},
		"0002_broken.sql": {Data: []byte(`CREATE TABLE nope (`)},
		"README.md":       {Data: []byte(`ignored`)},
	}
	applied, err := RunMigrations(database, broken)
	if err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if len(applied) != 1 || applied[0] != "0001_ok.sql" {
		t.Fatalf("expected only the first migration applied, got %v", applied)
	}

	recorded, err := AppliedMigrations(database)
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected only the first migration recorded, got %v", recorded)
	}
}

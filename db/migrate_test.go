package db

import (
	"path/filepath"
	"testing"
)

// The migrator takes ownership of the connection it is handed and closes it,
// so these tests open a fresh connection per migration call.

func TestMigrateUpFromPath(t *testing.T) {
	tmpDir, migrationsPath := setupTestMigrations(t)
	dbPath := filepath.Join(tmpDir, "migrate.db")

	if err := MigrateUpFromPath(dbPath, migrationsPath); err != nil {
		t.Fatalf("MigrateUpFromPath() error = %v", err)
	}

	version, dirty, err := GetMigrationVersionFromPath(dbPath, migrationsPath)
	if err != nil {
		t.Fatalf("GetMigrationVersionFromPath() error = %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
	if dirty {
		t.Error("migration state should not be dirty")
	}

	// Applying again is a no-op.
	if err := MigrateUpFromPath(dbPath, migrationsPath); err != nil {
		t.Fatalf("second MigrateUpFromPath() error = %v", err)
	}
}

func TestMigrateUp_CreatesTables(t *testing.T) {
	tmpDir, migrationsPath := setupTestMigrations(t)
	dbPath := filepath.Join(tmpDir, "tables.db")

	if err := MigrateUpFromPath(dbPath, migrationsPath); err != nil {
		t.Fatalf("MigrateUpFromPath() error = %v", err)
	}

	db, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnectionWithDefaults() error = %v", err)
	}
	defer db.Close()

	for _, table := range []string{"assessments", "assessment_measures", "error_log"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestMigrateDown(t *testing.T) {
	tmpDir, migrationsPath := setupTestMigrations(t)
	dbPath := filepath.Join(tmpDir, "down.db")

	if err := MigrateUpFromPath(dbPath, migrationsPath); err != nil {
		t.Fatalf("MigrateUpFromPath() error = %v", err)
	}

	conn, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnectionWithDefaults() error = %v", err)
	}
	if err := MigrateDown(conn, migrationsPath, 1); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	db, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='assessments'",
	).Scan(&name)
	if err == nil {
		t.Error("assessments table still exists after down migration")
	}
}

func TestGetMigrationVersion_NoMigrations(t *testing.T) {
	tmpDir, migrationsPath := setupTestMigrations(t)
	dbPath := filepath.Join(tmpDir, "fresh.db")

	version, dirty, err := GetMigrationVersionFromPath(dbPath, migrationsPath)
	if err != nil {
		t.Fatalf("GetMigrationVersionFromPath() error = %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("version = %d dirty = %v, want 0 false for fresh database", version, dirty)
	}
}

func TestNewMigrator_Validation(t *testing.T) {
	if _, err := newMigrator(nil, DefaultMigrationConfig("file://x")); err == nil {
		t.Error("newMigrator(nil db): expected error")
	}

	dbPath := filepath.Join(t.TempDir(), "v.db")
	db, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnectionWithDefaults() error = %v", err)
	}
	defer db.Close()

	if _, err := newMigrator(db, MigrationConfig{MigrationsPath: ""}); err == nil {
		t.Error("newMigrator with empty migrations path: expected error")
	}
}

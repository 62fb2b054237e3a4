package db

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConnectionConfig verifies default configuration values.
func TestDefaultConnectionConfig(t *testing.T) {
	path := "/test/path.db"
	config := DefaultConnectionConfig(path)

	if config.Path != path {
		t.Errorf("Path = %q, want %q", config.Path, path)
	}
	if config.BusyTimeout != 5000 {
		t.Errorf("BusyTimeout = %d, want 5000", config.BusyTimeout)
	}
	if config.MaxOpenConns != 1 {
		t.Errorf("MaxOpenConns = %d, want 1", config.MaxOpenConns)
	}
	if config.MaxIdleConns != 1 {
		t.Errorf("MaxIdleConns = %d, want 1", config.MaxIdleConns)
	}
	if config.ConnMaxLifetime != 0 {
		t.Errorf("ConnMaxLifetime = %v, want 0", config.ConnMaxLifetime)
	}
}

// TestNewSQLiteConnection_EmptyPath verifies error on empty path.
func TestNewSQLiteConnection_EmptyPath(t *testing.T) {
	db, err := NewSQLiteConnection(ConnectionConfig{Path: ""})
	if err == nil {
		db.Close()
		t.Fatal("expected error for empty path, got nil")
	}
	if db != nil {
		t.Error("expected nil db for empty path")
	}
}

// TestNewSQLiteConnection_CreatesDatabase verifies database file creation.
func TestNewSQLiteConnection_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteConnection(DefaultConnectionConfig(dbPath))
	if err != nil {
		t.Fatalf("NewSQLiteConnection() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

// TestNewSQLiteConnection_WALMode verifies WAL journal mode is active.
func TestNewSQLiteConnection_WALMode(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnectionWithDefaults() error = %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

// TestNewSQLiteConnection_ForeignKeys verifies foreign key enforcement is on.
func TestNewSQLiteConnection_ForeignKeys(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnectionWithDefaults() error = %v", err)
	}
	defer db.Close()

	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("failed to query foreign_keys: %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d, want 1", enabled)
	}
}

// TestNewSQLiteConnection_BasicOperations verifies read/write round-trip.
func TestNewSQLiteConnection_BasicOperations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteConnectionWithDefaults() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE smoke (id INTEGER PRIMARY KEY, value TEXT)"); err != nil {
		t.Fatalf("CREATE TABLE error = %v", err)
	}
	if _, err := db.Exec("INSERT INTO smoke (value) VALUES (?)", "hello"); err != nil {
		t.Fatalf("INSERT error = %v", err)
	}

	var value string
	if err := db.QueryRow("SELECT value FROM smoke WHERE id = 1").Scan(&value); err != nil {
		t.Fatalf("SELECT error = %v", err)
	}
	if value != "hello" {
		t.Errorf("value = %q, want %q", value, "hello")
	}
}

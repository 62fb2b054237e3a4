package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetDataDirectoryOverride(t *testing.T) {
	override := t.TempDir()
	os.Setenv("OFIQ_DATA_DIR", override)
	defer os.Unsetenv("OFIQ_DATA_DIR")

	if got := GetDataDirectory(); got != override {
		t.Errorf("GetDataDirectory() = %q, want override %q", got, override)
	}
	if got := GetDataFilePath("history.db"); got != filepath.Join(override, "history.db") {
		t.Errorf("GetDataFilePath() = %q", got)
	}
}

func TestGetDataDirectoryDefault(t *testing.T) {
	os.Unsetenv("OFIQ_DATA_DIR")

	got := GetDataDirectory()
	if got == "" {
		t.Fatal("GetDataDirectory() returned empty path")
	}
	if !strings.Contains(strings.ToLower(got), "ofiq") {
		t.Errorf("GetDataDirectory() = %q, expected an app-specific path", got)
	}
}

func TestEnsureDataDirectory(t *testing.T) {
	override := filepath.Join(t.TempDir(), "nested", "data")
	os.Setenv("OFIQ_DATA_DIR", override)
	defer os.Unsetenv("OFIQ_DATA_DIR")

	dir, err := EnsureDataDirectory()
	if err != nil {
		t.Fatalf("EnsureDataDirectory() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("data directory was not created: %v", err)
	}
}

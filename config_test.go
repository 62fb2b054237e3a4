package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine.ConfigDir == "" {
		t.Error("expected a default engine config dir")
	}
	if cfg.Engine.ConfigFile != "ofiq_config.jaxn" {
		t.Errorf("expected default config file ofiq_config.jaxn, got %s", cfg.Engine.ConfigFile)
	}
	if cfg.Database.RetentionDays != 30 {
		t.Errorf("expected 30 day retention, got %d", cfg.Database.RetentionDays)
	}
	if cfg.Watch.PollInterval <= 0 {
		t.Error("expected a positive poll interval")
	}
	if cfg.Report.QualityThreshold != 50.0 {
		t.Errorf("expected threshold 50.0, got %v", cfg.Report.QualityThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error, got %v", err)
	}
	if cfg.Report.QualityThreshold != 50.0 {
		t.Errorf("expected default threshold, got %v", cfg.Report.QualityThreshold)
	}
}

func TestLoadConfig_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
engine:
  config_dir: /opt/ofiq/data
  config_file: custom.jaxn
database:
  retention_days: 7
watch:
  input_dir: /var/images
  poll_interval: 5s
report:
  quality_threshold: 65.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Engine.ConfigDir != "/opt/ofiq/data" {
		t.Errorf("config_dir not applied: %s", cfg.Engine.ConfigDir)
	}
	if cfg.Engine.ConfigFile != "custom.jaxn" {
		t.Errorf("config_file not applied: %s", cfg.Engine.ConfigFile)
	}
	if cfg.Database.RetentionDays != 7 {
		t.Errorf("retention_days not applied: %d", cfg.Database.RetentionDays)
	}
	if cfg.Watch.InputDir != "/var/images" {
		t.Errorf("input_dir not applied: %s", cfg.Watch.InputDir)
	}
	if cfg.Watch.PollInterval != 5*time.Second {
		t.Errorf("poll_interval not applied: %v", cfg.Watch.PollInterval)
	}
	if cfg.Report.QualityThreshold != 65.5 {
		t.Errorf("quality_threshold not applied: %v", cfg.Report.QualityThreshold)
	}
	// Fields the file omits keep their defaults.
	if cfg.Database.Path == "" {
		t.Error("expected default database path to survive partial config")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OFIQ_CONFIG_DIR", "/env/data")
	t.Setenv("OFIQ_RETENTION_DAYS", "14")
	t.Setenv("OFIQ_QUALITY_THRESHOLD", "80")
	t.Setenv("OFIQ_WATCH_DIR", "/env/images")
	t.Setenv("OFIQ_POLL_INTERVAL_SECONDS", "10")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Engine.ConfigDir != "/env/data" {
		t.Errorf("OFIQ_CONFIG_DIR not applied: %s", cfg.Engine.ConfigDir)
	}
	if cfg.Database.RetentionDays != 14 {
		t.Errorf("OFIQ_RETENTION_DAYS not applied: %d", cfg.Database.RetentionDays)
	}
	if cfg.Report.QualityThreshold != 80 {
		t.Errorf("OFIQ_QUALITY_THRESHOLD not applied: %v", cfg.Report.QualityThreshold)
	}
	if cfg.Watch.InputDir != "/env/images" {
		t.Errorf("OFIQ_WATCH_DIR not applied: %s", cfg.Watch.InputDir)
	}
	if cfg.Watch.PollInterval != 10*time.Second {
		t.Errorf("OFIQ_POLL_INTERVAL_SECONDS not applied: %v", cfg.Watch.PollInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty config dir", func(c *Config) { c.Engine.ConfigDir = "" }},
		{"empty config file", func(c *Config) { c.Engine.ConfigFile = "" }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"zero poll interval", func(c *Config) { c.Watch.PollInterval = 0 }},
		{"threshold below range", func(c *Config) { c.Report.QualityThreshold = -1 }},
		{"threshold above range", func(c *Config) { c.Report.QualityThreshold = 101 }},
		{"narrative without key", func(c *Config) { c.Report.Narrative = true; c.OpenAI.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestConfigValidate_NarrativeWithKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Report.Narrative = true
	cfg.OpenAI.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("narrative with a key should validate, got %v", err)
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"ofiq_backend/core"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration. Values are resolved in
// three layers: built-in defaults, then config.yaml, then OFIQ_* environment
// variables (highest precedence).
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Database DatabaseConfig `yaml:"database"`
	Watch    WatchConfig    `yaml:"watch"`
	Report   ReportConfig   `yaml:"report"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Log      LogConfig      `yaml:"log"`
}

// EngineConfig locates the native OFIQ configuration.
type EngineConfig struct {
	// ConfigDir is the directory holding the OFIQ configuration and models.
	ConfigDir string `yaml:"config_dir"`
	// ConfigFile is the JAXN configuration file name inside ConfigDir.
	ConfigFile string `yaml:"config_file"`
}

// DatabaseConfig controls assessment persistence.
type DatabaseConfig struct {
	Path            string        `yaml:"path"`
	RetentionDays   int           `yaml:"retention_days"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// InputDir is the directory to watch when none is given on the
	// command line. Service mode always uses it.
	InputDir string `yaml:"input_dir"`
	// OutputDir receives the per-image report files.
	OutputDir    string        `yaml:"output_dir"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// ReportConfig controls terminal and file output.
type ReportConfig struct {
	QualityThreshold float64 `yaml:"quality_threshold"`
	ShowMeasures     bool    `yaml:"show_measures"`
	WriteFiles       bool    `yaml:"write_files"`
	Narrative        bool    `yaml:"narrative"`
}

// OpenAIConfig configures the optional narrative summary.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	File string `yaml:"file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			ConfigDir:  "data",
			ConfigFile: "ofiq_config.jaxn",
		},
		Database: DatabaseConfig{
			Path:            core.GetDataFilePath("assessments.db"),
			RetentionDays:   30,
			CleanupInterval: 24 * time.Hour,
		},
		Watch: WatchConfig{
			OutputDir:    "reports",
			PollInterval: 2 * time.Second,
		},
		Report: ReportConfig{
			QualityThreshold: 50.0,
			ShowMeasures:     true,
			WriteFiles:       false,
			Narrative:        false,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4",
		},
		Log: LogConfig{
			File: "ofiq.log",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// and environment overrides. A missing file is not an error; a malformed
// one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies OFIQ_* environment variables on top of whatever
// the file provided.
func (c *Config) applyEnvOverrides() {
	c.Engine.ConfigDir = core.GetEnvOrDefault("OFIQ_CONFIG_DIR", c.Engine.ConfigDir)
	c.Engine.ConfigFile = core.GetEnvOrDefault("OFIQ_CONFIG_FILE", c.Engine.ConfigFile)

	c.Database.Path = core.GetEnvOrDefault("OFIQ_DB_PATH", c.Database.Path)
	c.Database.RetentionDays = core.ParseIntEnv("OFIQ_RETENTION_DAYS", c.Database.RetentionDays)

	c.Watch.InputDir = core.GetEnvOrDefault("OFIQ_WATCH_DIR", c.Watch.InputDir)
	c.Watch.OutputDir = core.GetEnvOrDefault("OFIQ_OUTPUT_DIR", c.Watch.OutputDir)
	if seconds := core.ParseIntEnv("OFIQ_POLL_INTERVAL_SECONDS", 0); seconds > 0 {
		c.Watch.PollInterval = time.Duration(seconds) * time.Second
	}

	c.Report.QualityThreshold = core.ParseFloat64Env("OFIQ_QUALITY_THRESHOLD", c.Report.QualityThreshold)
	c.Report.ShowMeasures = core.ParseBoolEnv("OFIQ_SHOW_MEASURES", c.Report.ShowMeasures)
	c.Report.WriteFiles = core.ParseBoolEnv("OFIQ_WRITE_REPORTS", c.Report.WriteFiles)
	c.Report.Narrative = core.ParseBoolEnv("OFIQ_NARRATIVE", c.Report.Narrative)

	c.OpenAI.APIKey = core.GetEnvOrDefault("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.Model = core.GetEnvOrDefault("OPENAI_MODEL", c.OpenAI.Model)

	c.Log.File = core.GetEnvOrDefault("OFIQ_LOG_FILE", c.Log.File)
}

// Validate checks the cross-field constraints that defaults and overrides
// can still violate.
func (c *Config) Validate() error {
	if c.Engine.ConfigDir == "" {
		return fmt.Errorf("engine config_dir must not be empty")
	}
	if c.Engine.ConfigFile == "" {
		return fmt.Errorf("engine config_file must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Watch.PollInterval <= 0 {
		return fmt.Errorf("watch poll_interval must be positive, got %v", c.Watch.PollInterval)
	}
	if c.Report.QualityThreshold < 0 || c.Report.QualityThreshold > 100 {
		return fmt.Errorf("quality_threshold must be in [0,100], got %v", c.Report.QualityThreshold)
	}
	if c.Report.Narrative && c.OpenAI.APIKey == "" {
		return fmt.Errorf("narrative reports require an OpenAI API key")
	}
	return nil
}

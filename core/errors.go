package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeConfigDirMissing  = "CONFIG_DIR_MISSING"
	ErrCodeConfigFileMissing = "CONFIG_FILE_MISSING"
	ErrCodeMissingConfig     = "MISSING_CONFIG"
	ErrCodeInvalidImagePath  = "INVALID_IMAGE_PATH"
	ErrCodeInvalidDataDir    = "INVALID_DATA_DIR"
	ErrCodeMissingAuth       = "MISSING_AUTH"
)

// ErrConfigDirMissing returns an error for a missing OFIQ configuration directory.
func ErrConfigDirMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigDirMissing,
		Message: fmt.Sprintf("OFIQ configuration directory not found: %s", path),
		Action:  "Set OFIQ_CONFIG_DIR to the directory containing ofiq_config.jaxn and the model files",
	}
}

// ErrConfigFileMissing returns an error for a missing OFIQ configuration file.
func ErrConfigFileMissing(dir, file string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigFileMissing,
		Message: fmt.Sprintf("OFIQ configuration file not found: %s in %s", file, dir),
		Action:  "Check OFIQ_CONFIG_FILE or place ofiq_config.jaxn in the configuration directory",
	}
}

// ErrMissingConfig returns an error for missing required configuration.
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file or config.yaml", varName),
	}
}

// ErrInvalidImagePath returns an error for an image path that cannot be read.
func ErrInvalidImagePath(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidImagePath,
		Message: fmt.Sprintf("Cannot read image '%s': %s", path, reason),
		Action:  "Check the path exists and is a PNG, JPEG, GIF or BMP file",
	}
}

// ErrInvalidDataDir returns an error when the data directory cannot be used.
func ErrInvalidDataDir(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidDataDir,
		Message: fmt.Sprintf("Cannot use data directory '%s': %s", path, reason),
		Action:  "Set OFIQ_DATA_DIR to a writable directory",
	}
}

// ErrMissingAuth returns an error for missing authentication credentials.
func ErrMissingAuth(service string) *ConfigError {
	var action string
	switch service {
	case "openai":
		action = "Set OPENAI_API_KEY in your .env file (or disable the report narrative)"
	default:
		action = fmt.Sprintf("Set the required API key for %s in your .env file", service)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication credentials for %s", service),
		Action:  action,
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}

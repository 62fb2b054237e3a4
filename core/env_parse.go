package core

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault returns the value of an environment variable, or the
// fallback when the variable is unset or empty. All OFIQ_* configuration
// overrides funnel through this and the Parse*Env helpers below.
func GetEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// ParseIntEnv parses an environment variable as an integer, falling back
// when the variable is unset or malformed. Used for knobs like
// OFIQ_RETENTION_DAYS where a typo should never crash startup.
func ParseIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// ParseFloat64Env parses an environment variable as a float64, falling back
// when unset or malformed. Quality thresholds come through here.
func ParseFloat64Env(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// ParseBoolEnv parses an environment variable as a boolean.
// "true", "1", "yes" and "on" are true; "false", "0", "no" and "off" are
// false; comparison is case-insensitive and ignores surrounding whitespace.
// Anything else falls back.
func ParseBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

// ParseDurationEnv parses an environment variable holding a whole number of
// seconds into a time.Duration, falling back when unset or malformed.
func ParseDurationEnv(key string, fallbackSeconds int) time.Duration {
	return time.Duration(ParseIntEnv(key, fallbackSeconds)) * time.Second
}

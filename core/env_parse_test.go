package core

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	const testKey = "TEST_GET_ENV_OR_DEFAULT"
	defer os.Unsetenv(testKey)

	tests := []struct {
		name         string
		envValue     string
		setEnv       bool
		defaultValue string
		want         string
	}{
		{name: "returns env value when set", envValue: "custom_value", setEnv: true, defaultValue: "default", want: "custom_value"},
		{name: "returns default when not set", setEnv: false, defaultValue: "default", want: "default"},
		{name: "returns default when empty", envValue: "", setEnv: true, defaultValue: "default", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(testKey)
			if tt.setEnv {
				os.Setenv(testKey, tt.envValue)
			}
			got := GetEnvOrDefault(testKey, tt.defaultValue)
			if got != tt.want {
				t.Errorf("GetEnvOrDefault() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	const testKey = "TEST_PARSE_INT_ENV"
	defer os.Unsetenv(testKey)

	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     int
	}{
		{name: "parses valid integer", envValue: "42", setEnv: true, want: 42},
		{name: "parses negative integer", envValue: "-7", setEnv: true, want: -7},
		{name: "returns default on invalid", envValue: "not-a-number", setEnv: true, want: 10},
		{name: "returns default when unset", setEnv: false, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(testKey)
			if tt.setEnv {
				os.Setenv(testKey, tt.envValue)
			}
			if got := ParseIntEnv(testKey, 10); got != tt.want {
				t.Errorf("ParseIntEnv() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFloat64Env(t *testing.T) {
	const testKey = "TEST_PARSE_FLOAT_ENV"
	defer os.Unsetenv(testKey)

	os.Setenv(testKey, "73.5")
	if got := ParseFloat64Env(testKey, 1.0); got != 73.5 {
		t.Errorf("ParseFloat64Env(valid) = %v, want 73.5", got)
	}

	os.Setenv(testKey, "nope")
	if got := ParseFloat64Env(testKey, 1.0); got != 1.0 {
		t.Errorf("ParseFloat64Env(invalid) = %v, want default 1.0", got)
	}
}

func TestParseBoolEnv(t *testing.T) {
	const testKey = "TEST_PARSE_BOOL_ENV"
	defer os.Unsetenv(testKey)

	tests := []struct {
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
		{"  true  ", false, true},
	}

	for _, tt := range tests {
		os.Setenv(testKey, tt.envValue)
		if got := ParseBoolEnv(testKey, tt.defaultValue); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.envValue, tt.defaultValue, got, tt.want)
		}
	}

	os.Unsetenv(testKey)
	if got := ParseBoolEnv(testKey, true); got != true {
		t.Error("ParseBoolEnv(unset) did not return default")
	}
}

func TestParseDurationEnv(t *testing.T) {
	const testKey = "TEST_PARSE_DURATION_ENV"
	defer os.Unsetenv(testKey)

	os.Setenv(testKey, "30")
	if got := ParseDurationEnv(testKey, 5); got != 30*time.Second {
		t.Errorf("ParseDurationEnv(30) = %v, want 30s", got)
	}

	os.Unsetenv(testKey)
	if got := ParseDurationEnv(testKey, 5); got != 5*time.Second {
		t.Errorf("ParseDurationEnv(unset) = %v, want 5s", got)
	}
}

package core

import (
	"strings"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if !strings.Contains(info, GetVersion()) {
		t.Errorf("GetVersionInfo() = %q, does not contain version %q", info, GetVersion())
	}
	if !strings.Contains(info, "built") || !strings.Contains(info, "commit") {
		t.Errorf("GetVersionInfo() = %q, missing build metadata", info)
	}
}

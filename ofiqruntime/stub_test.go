//go:build !ofiq || stub

package ofiqruntime

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// The tests in this file run against the stub native surface through the
// public constructor, so they exercise the exact wiring a library-less build
// ships with.

func TestStubEngineInitialize(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	err := e.Initialize(t.TempDir(), "")
	if err == nil {
		t.Fatal("Initialize() succeeded, want stub error")
	}
	if !errors.Is(err, ErrNativeCall) {
		t.Errorf("error = %v, want ErrNativeCall", err)
	}
	if !strings.Contains(err.Error(), "stub build") {
		t.Errorf("error %q does not name the stub build", err.Error())
	}
	if got := e.State(); got != StateUninitialized {
		t.Errorf("state after stub init failure = %v, want uninitialized", got)
	}
}

func TestStubEngineVersion(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	if got := e.Version(); got != VersionUnavailable {
		t.Errorf("Version() = %q, want %q", got, VersionUnavailable)
	}
}

func TestStubEngineValidationStillRuns(t *testing.T) {
	// Pre-boundary checks do not depend on the native library being present.
	e := NewEngine()
	defer e.Close()

	// Lifecycle check fires before the stub is consulted.
	if _, err := e.AssessQuality(testImage()); !errors.Is(err, ErrLifecycle) {
		t.Errorf("AssessQuality on uninitialized stub engine: error = %v, want ErrLifecycle", err)
	}

	// Config validation likewise.
	err := e.Initialize(filepath.Join(t.TempDir(), "missing"), "")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Initialize with missing dir: error = %v, want ErrConfiguration", err)
	}
}

func TestStubImageStaging(t *testing.T) {
	n := newNative()

	pixels := []byte{1, 2, 3, 4, 5, 6}
	img, err := n.allocImage(pixels, 2, 1, 3)
	if err != nil {
		t.Fatalf("allocImage() error = %v", err)
	}
	if img.ptr == nil || img.byteLen != len(pixels) {
		t.Fatalf("staged image = %+v, want pinned %d-byte copy", img, len(pixels))
	}

	// The staged copy is independent of the caller's slice.
	pixels[0] = 99
	if img.backing[0] != 1 {
		t.Errorf("staged copy aliases caller pixels")
	}

	n.freeImage(img)
	if img.ptr != nil || img.backing != nil {
		t.Errorf("freeImage did not release the staged copy: %+v", img)
	}
	// Safe on nil and after a prior free.
	n.freeImage(img)
	n.freeImage(nil)
}

// Package ofiqruntime provides Go bindings to the OFIQ native library.
// This file contains the Engine facade - the high-level Go API for quality
// assessment, and the lifecycle state machine around the native context.
//
// Example usage:
//
//	engine := ofiqruntime.NewEngine()
//	defer engine.Close()
//
//	if err := engine.Initialize("config", ""); err != nil {
//	    log.Fatal(err)
//	}
//
//	assessment, err := engine.AssessQualityFile("face.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("overall quality: %.1f\n", assessment.OverallQuality)
package ofiqruntime

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"ofiq_backend/imageio"
)

// nativeMu serializes every native call in the process. ofiq_lib keeps
// process-global state across initialize/cleanup, so calls from distinct
// Engine values must not overlap either.
var nativeMu sync.Mutex

// liveEngine guards the one-initialized-engine-per-process invariant.
// The native library has a single global context; a second initialized
// Engine would silently share (and then tear down) the first one's state.
var liveEngine atomic.Bool

// Engine is the stateful facade over the native OFIQ engine context.
//
// Lifecycle: Uninitialized -> Initialized -> Disposed. Initialize is valid
// only once per Engine; Close is idempotent and terminal. Every native call
// is a blocking, synchronous round-trip - there is no cancellation at this
// layer, and a caller needing one must run the call on a worker it is
// prepared to abandon.
//
// Thread safety: all methods are safe for concurrent use; operations on one
// Engine are serialized by an instance lock.
type Engine struct {
	mu     sync.Mutex
	state  EngineState
	native nativeAPI
}

// NewEngine creates an uninitialized Engine backed by the native library
// (or the stub, depending on build tags).
func NewEngine() *Engine {
	return &Engine{native: newNative()}
}

// newEngineWithNative constructs an Engine over an arbitrary native surface.
// Used by tests to substitute a fake.
func newEngineWithNative(n nativeAPI) *Engine {
	return &Engine{native: n}
}

// State returns the current lifecycle state.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Initialize loads the OFIQ configuration and brings up the native engine
// context. configDir must name an existing directory; configFile defaults to
// DefaultConfigFile when empty. The configuration content is opaque to this
// wrapper and parsed entirely by the native side.
//
// Valid only from the Uninitialized state: a second Initialize without an
// intervening Close fails with a lifecycle error, as does initializing a
// disposed engine. On native failure the engine stays Uninitialized and may
// be retried.
func (e *Engine) Initialize(configDir, configFile string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateInitialized:
		return lifecycleError("Initialize", "engine is already initialized")
	case StateDisposed:
		return lifecycleError("Initialize", "engine is disposed")
	}

	if configDir == "" {
		return &OfiqError{
			Op:      "Initialize",
			Code:    -1,
			Message: "config directory is required",
			Err:     ErrConfiguration,
		}
	}
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	info, err := os.Stat(configDir)
	if err != nil || !info.IsDir() {
		return &OfiqError{
			Op:      "Initialize",
			Code:    -1,
			Message: fmt.Sprintf("config directory not found: %s", configDir),
			Err:     ErrConfiguration,
		}
	}

	if !liveEngine.CompareAndSwap(false, true) {
		return lifecycleError("Initialize", "another engine is already initialized in this process")
	}

	nativeMu.Lock()
	st := e.native.initialize(configDir, configFile)
	nativeMu.Unlock()

	if !st.ok() {
		liveEngine.Store(false)
		return translateStatus("Initialize", st)
	}

	e.state = StateInitialized
	return nil
}

// AssessQuality runs one synchronous quality assessment over a decoded image
// buffer. Valid only from the Initialized state.
//
// The pixel data is copied into an unmanaged buffer immediately before the
// native call and released on every exit path; argument validation failures
// are raised before that allocation happens, so they never need cleanup.
func (e *Engine) AssessQuality(img *imageio.Image) (*Assessment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	assessment, _, err := e.assessLocked("AssessQuality", img, false)
	return assessment, err
}

// AssessQualityWithPreprocessing is AssessQuality plus the preprocessing
// artifacts the native engine computed along the way: detected face boxes,
// the dominant face's landmark set, and its head pose.
func (e *Engine) AssessQualityWithPreprocessing(img *imageio.Image) (*Assessment, *Preprocessing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.assessLocked("AssessQualityWithPreprocessing", img, true)
}

// AssessQualityFile loads an image from disk and assesses it.
// Decoding failures and a missing file surface as image-load errors before
// any native call is attempted.
func (e *Engine) AssessQualityFile(path string) (*Assessment, error) {
	if path == "" {
		return nil, imageError("AssessQualityFile", "image path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &OfiqError{
			Op:      "AssessQualityFile",
			Code:    -1,
			Message: fmt.Sprintf("image file not found: %s", path),
			Err:     ErrImageLoad,
		}
	}

	img, err := imageio.LoadFile(path)
	if err != nil {
		return nil, &OfiqError{
			Op:      "AssessQualityFile",
			Code:    -1,
			Message: fmt.Sprintf("failed to decode %s: %v", path, err),
			Err:     ErrImageLoad,
		}
	}

	return e.AssessQuality(img)
}

// assessLocked is the shared assessment path. Caller holds e.mu.
func (e *Engine) assessLocked(op string, img *imageio.Image, withPreprocessing bool) (*Assessment, *Preprocessing, error) {
	switch e.state {
	case StateUninitialized:
		return nil, nil, lifecycleError(op, "engine is not initialized")
	case StateDisposed:
		return nil, nil, lifecycleError(op, "engine is disposed")
	}

	if err := validateImage(op, img); err != nil {
		return nil, nil, err
	}

	nativeMu.Lock()
	defer nativeMu.Unlock()

	// Scoped acquisition: the unmanaged pixel copy lives exactly as long as
	// this call, and the deferred free runs on every exit path.
	buf, err := e.native.allocImage(img.Pixels, img.Width, img.Height, img.Channels)
	if err != nil {
		return nil, nil, err
	}
	defer e.native.freeImage(buf)

	var (
		st nativeStatus
		na nativeAssessment
		np nativePreprocessing
	)
	if withPreprocessing {
		st, na, np = e.native.assessQualityFull(buf)
	} else {
		st, na = e.native.assessQuality(buf)
	}
	if !st.ok() {
		return nil, nil, translateStatus(op, st)
	}

	// Convert while the borrowed result pointers are still valid; the next
	// native call on this engine invalidates them.
	assessment, err := convertAssessment(na)
	if err != nil {
		return nil, nil, err
	}

	if !withPreprocessing {
		return assessment, nil, nil
	}

	preprocessing, err := convertPreprocessing(np)
	if err != nil {
		return nil, nil, err
	}
	return assessment, preprocessing, nil
}

// Version returns the native library version string. Valid in any state and
// never fails: when the version cannot be retrieved (stub build, undersized
// scratch buffer, native error) it returns VersionUnavailable. This is the
// one documented exception to fail-loud error propagation.
func (e *Engine) Version() string {
	nativeMu.Lock()
	defer nativeMu.Unlock()

	v, ok := e.native.version(versionBufferSize)
	if !ok || v == "" {
		return VersionUnavailable
	}
	return v
}

// Close tears down the native engine context. Idempotent: the native cleanup
// runs exactly once, only when the engine was initialized, and repeated
// closes are silent no-ops. Close never returns a non-nil error; the error
// return exists to satisfy io.Closer.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateInitialized {
		nativeMu.Lock()
		e.native.cleanup()
		nativeMu.Unlock()
		liveEngine.Store(false)
	}
	e.state = StateDisposed
	return nil
}

// validateImage rejects images that must not reach the native boundary.
// Runs before any unmanaged allocation.
func validateImage(op string, img *imageio.Image) error {
	if img == nil || len(img.Pixels) == 0 {
		return imageError(op, "image is nil or empty")
	}
	switch img.Channels {
	case 1, 3, 4:
	default:
		return imageError(op, fmt.Sprintf("unsupported channel count %d (want 1, 3 or 4)", img.Channels))
	}
	if img.Width <= 0 || img.Height <= 0 {
		return imageError(op, fmt.Sprintf("invalid dimensions %dx%d", img.Width, img.Height))
	}
	if want := img.Width * img.Height * img.Channels; len(img.Pixels) != want {
		return imageError(op, fmt.Sprintf("pixel buffer length %d does not match %dx%dx%d = %d",
			len(img.Pixels), img.Width, img.Height, img.Channels, want))
	}
	return nil
}

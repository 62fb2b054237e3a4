// Package ofiqruntime provides Go bindings to the OFIQ native library.
package ofiqruntime

import (
	"errors"
	"fmt"
)

// OfiqError represents an error from OFIQ operations.
// It provides structured error information including the operation that failed,
// the status code from the C layer, and a descriptive message.
type OfiqError struct {
	Op      string // Operation that failed (e.g., "Initialize", "AssessQuality")
	Code    int    // Status code from the C layer (0 = success, non-zero = error)
	Message string // Human-readable error message
	Err     error  // Wrapped sentinel error (if any)
}

// Error implements the error interface.
// It returns a formatted error string with operation, message, and status code.
func (e *OfiqError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ofiq %s: %s (Code: %d): %v", e.Op, e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("ofiq %s: %s (Code: %d)", e.Op, e.Message, e.Code)
}

// Unwrap implements the error unwrapping interface.
// It returns the wrapped error, allowing use with errors.Is and errors.As.
func (e *OfiqError) Unwrap() error {
	return e.Err
}

// Sentinel errors for the error kinds the wrapper can surface.
// These are used for error checking with errors.Is().
var (
	// ErrConfiguration indicates a bad or missing configuration directory or
	// file, or a native-side configuration failure during initialization.
	ErrConfiguration = errors.New("configuration error")

	// ErrImageLoad indicates the image could not be decoded, or its format is
	// unsupported, before the native boundary was reached.
	ErrImageLoad = errors.New("image load error")

	// ErrNativeCall indicates the native library returned a non-success status.
	// The wrapping OfiqError carries the native status code and message.
	ErrNativeCall = errors.New("native call failed")

	// ErrLifecycle indicates an operation was invoked in the wrong engine
	// state: double-initialize, assess-before-init, or use-after-close.
	ErrLifecycle = errors.New("invalid engine lifecycle state")

	// ErrDataIntegrity indicates the native side returned a measure id or
	// array layout inconsistent with the declared ABI. This is never silently
	// dropped; it means the binding and the library disagree on the contract.
	ErrDataIntegrity = errors.New("native data integrity violation")
)

// lifecycleError builds the OfiqError raised for state machine violations.
func lifecycleError(op, detail string) *OfiqError {
	return &OfiqError{
		Op:      op,
		Code:    -1,
		Message: detail,
		Err:     ErrLifecycle,
	}
}

// imageError builds the OfiqError raised for pre-boundary image validation
// failures. These are raised before any unmanaged allocation occurs.
func imageError(op, detail string) *OfiqError {
	return &OfiqError{
		Op:      op,
		Code:    -1,
		Message: detail,
		Err:     ErrImageLoad,
	}
}

// Package ofiqruntime provides Go bindings to the OFIQ native library.
// This file contains pure Go types and constants - no CGo dependencies.
package ofiqruntime

import (
	"fmt"
	"math"
)

// =============================================================================
// Default Constants
// =============================================================================

const (
	// DefaultConfigFile is the configuration file name passed to the native
	// initializer when the caller does not name one. The file uses OFIQ's
	// JAXN format; this wrapper never parses it, only forwards the name.
	DefaultConfigFile = "ofiq_config.jaxn"

	// VersionUnavailable is returned by Engine.Version when the native
	// version string cannot be retrieved. The version query never fails;
	// this placeholder is the documented degraded result.
	VersionUnavailable = "unknown"

	// versionBufferSize is the scratch buffer size for the native version
	// query. OFIQ version strings are short ("OFIQ x.y.z"); a query needing
	// more than this is treated as version-unavailable, not an error.
	versionBufferSize = 128
)

// =============================================================================
// Engine State
// =============================================================================

// EngineState is the lifecycle state of an Engine.
// The only legal transitions are Uninitialized -> Initialized -> Disposed,
// and Uninitialized -> Disposed. Disposed is terminal.
type EngineState int32

const (
	// StateUninitialized is the state of a freshly constructed Engine.
	StateUninitialized EngineState = iota

	// StateInitialized means the native engine context is live and
	// assessment calls are permitted.
	StateInitialized

	// StateDisposed means the engine has been closed. Terminal.
	StateDisposed
)

// String returns a human-readable state name.
func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDisposed:
		return "disposed"
	default:
		return "invalid"
	}
}

// =============================================================================
// Return Codes
// =============================================================================

// ReturnCode is the per-measure status reported by the native side.
// Unknown native values are preserved verbatim; IsSuccess is only true for
// ReturnCodeSuccess.
type ReturnCode int32

const (
	// ReturnCodeSuccess means the measure was computed.
	ReturnCodeSuccess ReturnCode = 0

	// ReturnCodeFailureToAssess means the measure could not be assessed on
	// this image (e.g. no face found for a face-dependent measure).
	ReturnCodeFailureToAssess ReturnCode = 1

	// ReturnCodeInternalError means the native measure implementation failed.
	ReturnCodeInternalError ReturnCode = 2

	// ReturnCodeNotImplemented means the measure is not implemented by this
	// native build.
	ReturnCodeNotImplemented ReturnCode = 3

	// ReturnCodeNotConfigured means the measure was not enabled in the
	// loaded configuration.
	ReturnCodeNotConfigured ReturnCode = 4
)

// String returns a human-readable return code name.
func (c ReturnCode) String() string {
	switch c {
	case ReturnCodeSuccess:
		return "Success"
	case ReturnCodeFailureToAssess:
		return "FailureToAssess"
	case ReturnCodeInternalError:
		return "InternalError"
	case ReturnCodeNotImplemented:
		return "NotImplemented"
	case ReturnCodeNotConfigured:
		return "NotConfigured"
	default:
		return fmt.Sprintf("ReturnCode(%d)", int32(c))
	}
}

// =============================================================================
// Result Types
// =============================================================================

// QualityMeasureResult is one converted measure score. It is a value type:
// once built by the converter it shares no memory with the native side.
//
// Failed measures (ReturnCode != Success) carry NaN in both score fields.
// NaN is the explicit sentinel for "not computed" - distinct from a
// legitimately low score of 0.
type QualityMeasureResult struct {
	// Measure identifies the scored attribute.
	Measure QualityMeasure

	// RawScore is the native raw (unscaled) measure value.
	RawScore float64

	// QualityValue is the mapped quality component, expected in [0,100]
	// but copied verbatim from the native side, never clamped.
	QualityValue float64

	// Code is the per-measure native return code.
	Code ReturnCode
}

// IsSuccess reports whether the measure was actually computed.
func (r QualityMeasureResult) IsSuccess() bool {
	return r.Code == ReturnCodeSuccess
}

// Assessment is the converted result of one quality assessment call.
// It owns its measures slice exclusively; nothing aliases native memory.
type Assessment struct {
	// Measures holds the per-measure results in native array order.
	// The order is not guaranteed to be sorted by measure id.
	Measures []QualityMeasureResult

	// OverallQuality is the unified quality score copied verbatim from the
	// native result, without rescaling.
	OverallQuality float64
}

// Measure returns the result for the given measure and whether it was present
// in this assessment.
func (a *Assessment) Measure(m QualityMeasure) (QualityMeasureResult, bool) {
	for _, r := range a.Measures {
		if r.Measure == m {
			return r, true
		}
	}
	return QualityMeasureResult{}, false
}

// =============================================================================
// Preprocessing Types
// =============================================================================

// FaceBox is one detected face region in image pixel coordinates.
type FaceBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Landmark is one facial landmark point in image pixel coordinates.
// OFIQ's landmark model produces a 98-point set for the dominant face.
type Landmark struct {
	X float32
	Y float32
}

// HeadPose holds the estimated head rotation angles in degrees.
type HeadPose struct {
	Yaw   float64
	Pitch float64
	Roll  float64
}

// Preprocessing holds the preprocessing artifacts the native engine computes
// before scoring: detected faces, the landmark set of the dominant face, and
// its head pose. Fully owned copies, like Assessment.
type Preprocessing struct {
	Faces     []FaceBox
	Landmarks []Landmark
	Pose      HeadPose
}

// failureScore is the NaN sentinel stored in both score fields of a measure
// that was not computed.
func failureScore() float64 {
	return math.NaN()
}

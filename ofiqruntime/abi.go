// Package ofiqruntime provides Go bindings to the OFIQ native library.
// This file declares the fixed native memory layout and the checked reader
// used to walk native result arrays. It has no CGo dependency so the layout
// and conversion logic are testable without the native library.
package ofiqruntime

import (
	"fmt"
	"unsafe"
)

// =============================================================================
// Native Status
// =============================================================================

// statusCode is the status code returned by every ofiq_lib entry point.
// The values mirror the OFIQStatus.code field of the C API and must not be
// renumbered.
type statusCode int32

const (
	statusSuccess                statusCode = 0
	statusError                  statusCode = 1
	statusInvalidParameter       statusCode = 2
	statusOutOfMemory            statusCode = 3
	statusConfigurationError     statusCode = 4
	statusUnsupportedImageFormat statusCode = 5
)

// nativeStatus is the Go-side view of an OFIQStatus. The native message
// pointer is only valid until the next native call, so the binding copies it
// into Message at the call site (C.GoString) before anything else runs.
type nativeStatus struct {
	Code    statusCode
	Message string
}

// ok reports whether the status is a success.
func (s nativeStatus) ok() bool {
	return s.Code == statusSuccess
}

// =============================================================================
// Fixed Native Layout
// =============================================================================
//
// The structs below mirror the ofiq_lib C API on LP64 platforms (x86-64,
// arm64) with natural alignment. The offsets and strides are declared here
// once and used for all pointer arithmetic; they are asserted against the
// compiler's view of the C structs in cgo_layout_test.go when the native
// build tag is enabled. Guessing a stride instead of deriving it from this
// declared layout is how bindings silently corrupt data.
//
//	struct OFIQMeasureResult {          offset
//	    int32_t measure_id;             0   (4 bytes + 4 padding)
//	    double  raw_score;              8
//	    double  quality_value;          16
//	    int32_t return_code;            24  (4 bytes + 4 trailing padding)
//	};                                  size/stride = 32
//
//	struct OFIQFaceBox {                offset
//	    int32_t x, y, width, height;    0, 4, 8, 12
//	};                                  size/stride = 16
//
//	struct OFIQLandmark {               offset
//	    float x, y;                     0, 4
//	};                                  size/stride = 8
const (
	measureResultStride     = 32
	measureResultOffID      = 0
	measureResultOffRaw     = 8
	measureResultOffQuality = 16
	measureResultOffCode    = 24

	faceBoxStride    = 16
	faceBoxOffX      = 0
	faceBoxOffY      = 4
	faceBoxOffWidth  = 8
	faceBoxOffHeight = 12

	landmarkStride = 8
	landmarkOffX   = 0
	landmarkOffY   = 4
)

// =============================================================================
// Foreign Array Reader
// =============================================================================

// foreignArray is a borrowed, fixed-stride native array: a base pointer the
// native side owns, an element count, and the element stride from the
// declared layout above. It is the only way this package walks native
// memory - elem() is bounds-checked, and no raw pointer leaves the converter.
type foreignArray struct {
	base   unsafe.Pointer
	count  int
	stride uintptr
}

// elem returns the address of element i, or an error when the index is out of
// bounds or the base pointer is nil. The returned pointer is borrowed and must
// not be retained past the conversion that requested it.
func (a foreignArray) elem(i int) (unsafe.Pointer, error) {
	if a.base == nil {
		return nil, &OfiqError{
			Op:      "foreignArray.elem",
			Code:    -1,
			Message: "nil base pointer",
			Err:     ErrDataIntegrity,
		}
	}
	if i < 0 || i >= a.count {
		return nil, &OfiqError{
			Op:      "foreignArray.elem",
			Code:    -1,
			Message: fmt.Sprintf("index %d out of bounds (count %d)", i, a.count),
			Err:     ErrDataIntegrity,
		}
	}
	return unsafe.Add(a.base, uintptr(i)*a.stride), nil
}

// Field readers. Each reads one scalar at a declared offset within an element
// address produced by elem(). Kept trivial on purpose: every unsafe
// dereference in the package happens in one of these four lines.

func readInt32(p unsafe.Pointer, off uintptr) int32 {
	return *(*int32)(unsafe.Add(p, off))
}

func readFloat32(p unsafe.Pointer, off uintptr) float32 {
	return *(*float32)(unsafe.Add(p, off))
}

func readFloat64(p unsafe.Pointer, off uintptr) float64 {
	return *(*float64)(unsafe.Add(p, off))
}

// =============================================================================
// Native Call Surface
// =============================================================================

// nativeImage is an unmanaged pixel buffer staged for one native call.
// The marshaling layer owns ptr exclusively from allocImage until freeImage;
// it is freed exactly once on every exit path of an assessment.
type nativeImage struct {
	ptr      unsafe.Pointer
	width    int
	height   int
	channels int
	byteLen  int

	// backing pins the Go copy in stub builds, where ptr points into Go
	// memory instead of a malloc'd block. Unused by the cgo implementation.
	backing []byte
}

// nativeAssessment is the Go-side view of an OFIQAssessmentResult.
// measures is a borrowed pointer into native-owned storage, valid only until
// the next native call; the converter copies everything out before returning.
type nativeAssessment struct {
	count    int32
	measures unsafe.Pointer
	overall  float64
}

// nativePreprocessing is the Go-side view of an OFIQPreprocessingResult.
// Both array pointers are borrowed with the same validity window as
// nativeAssessment.measures.
type nativePreprocessing struct {
	faceCount     int32
	faces         unsafe.Pointer
	landmarkCount int32
	landmarks     unsafe.Pointer
	yaw           float64
	pitch         float64
	roll          float64
}

// nativeAPI is the ofiq_lib call surface. The real implementation lives in
// cgo_bindings_ofiq.go; cgo_bindings_stub.go provides the library-less stub,
// and engine tests substitute a fake to drive every status path.
type nativeAPI interface {
	// initialize loads the configuration and brings up the native engine.
	initialize(configDir, configFile string) nativeStatus

	// assessQuality runs one synchronous assessment of the staged image.
	assessQuality(img *nativeImage) (nativeStatus, nativeAssessment)

	// assessQualityFull additionally returns preprocessing artifacts.
	assessQualityFull(img *nativeImage) (nativeStatus, nativeAssessment, nativePreprocessing)

	// version fills a scratch buffer of bufSize bytes with the native
	// version string. ok is false when the native side reported a negative
	// length or one that overflows the buffer.
	version(bufSize int) (v string, ok bool)

	// cleanup tears down the native engine context.
	cleanup()

	// allocImage stages an unmanaged copy of pixels for one native call.
	allocImage(pixels []byte, width, height, channels int) (*nativeImage, error)

	// freeImage releases a staged image. Safe on nil and after a prior free.
	freeImage(img *nativeImage)
}

//go:build ofiq && cgo && !stub

// Real CGo implementation of the ofiq_lib bindings.
// Build with: CGO_ENABLED=1 go build -tags ofiq
//
// Build Requirements:
// - ofiq_lib compiled as a shared library (libofiq_lib.so / ofiq_lib.dll)
// - Headers in deps/ofiq/include or the system include path
// - Library in lib/ or the system library path
// - The OFIQ model files and a JAXN configuration directory at runtime

package ofiqruntime

/*
#cgo CFLAGS: -I${SRCDIR}/../deps/ofiq/include
#cgo LDFLAGS: -L${SRCDIR}/../lib -lofiq_lib -lstdc++ -lm
#cgo linux LDFLAGS: -Wl,-rpath,${SRCDIR}/../lib
#cgo windows LDFLAGS: -lofiq_lib

#include <stdlib.h>
#include <string.h>
#include <stdint.h>

// Struct mirrors for the ofiq_lib C API. Field order, integer widths and
// string encoding must match ofiq_c_api.h exactly - the Go layout constants
// in abi.go are asserted against these definitions in cgo_layout_test.go.

typedef struct OFIQStatus {
    int32_t     code;
    const char* message;   // borrowed; valid until the next ofiq_* call
} OFIQStatus;

typedef struct OFIQMeasureResult {
    int32_t measure_id;
    double  raw_score;
    double  quality_value;
    int32_t return_code;
} OFIQMeasureResult;

typedef struct OFIQAssessmentResult {
    int32_t                  measure_count;
    const OFIQMeasureResult* measures;      // native-owned; valid until the next ofiq_* call
    double                   overall_quality;
} OFIQAssessmentResult;

typedef struct OFIQFaceBox {
    int32_t x;
    int32_t y;
    int32_t width;
    int32_t height;
} OFIQFaceBox;

typedef struct OFIQLandmark {
    float x;
    float y;
} OFIQLandmark;

typedef struct OFIQPreprocessingResult {
    int32_t             face_count;
    const OFIQFaceBox*  faces;       // native-owned
    int32_t             landmark_count;
    const OFIQLandmark* landmarks;   // native-owned
    double              pose_yaw;
    double              pose_pitch;
    double              pose_roll;
} OFIQPreprocessingResult;

// Function declarations - resolved at link time against ofiq_lib.
extern OFIQStatus ofiq_initialize(const char* config_dir, const char* config_file);
extern OFIQStatus ofiq_assess_quality(const uint8_t* pixels, int32_t width, int32_t height, int32_t channels, OFIQAssessmentResult* result);
extern OFIQStatus ofiq_assess_quality_full(const uint8_t* pixels, int32_t width, int32_t height, int32_t channels, OFIQAssessmentResult* result, OFIQPreprocessingResult* preprocessing);
extern void ofiq_cleanup(void);
extern int32_t ofiq_get_version(char* buffer, int32_t buffer_size);
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// cgoNative is the nativeAPI implementation backed by the linked ofiq_lib.
type cgoNative struct{}

// newNative returns the real native surface.
func newNative() nativeAPI {
	return &cgoNative{}
}

// goStatus copies an OFIQStatus into Go memory. The message pointer is only
// valid until the next native call, so the copy must happen here, before the
// status is handed to anything that might call back into the library.
func goStatus(st C.OFIQStatus) nativeStatus {
	ns := nativeStatus{Code: statusCode(st.code)}
	if st.message != nil {
		ns.Message = C.GoString(st.message)
	}
	return ns
}

func (cgoNative) initialize(configDir, configFile string) nativeStatus {
	cDir := C.CString(configDir)
	defer C.free(unsafe.Pointer(cDir))
	cFile := C.CString(configFile)
	defer C.free(unsafe.Pointer(cFile))

	return goStatus(C.ofiq_initialize(cDir, cFile))
}

func (cgoNative) allocImage(pixels []byte, width, height, channels int) (*nativeImage, error) {
	n := len(pixels)
	buf := C.malloc(C.size_t(n))
	if buf == nil {
		return nil, &OfiqError{
			Op:      "allocImage",
			Code:    int(statusOutOfMemory),
			Message: fmt.Sprintf("failed to allocate %d byte image buffer", n),
			Err:     ErrNativeCall,
		}
	}
	C.memcpy(buf, unsafe.Pointer(&pixels[0]), C.size_t(n))

	return &nativeImage{
		ptr:      buf,
		width:    width,
		height:   height,
		channels: channels,
		byteLen:  n,
	}, nil
}

func (cgoNative) freeImage(img *nativeImage) {
	if img == nil || img.ptr == nil {
		return
	}
	C.free(img.ptr)
	img.ptr = nil
}

func (cgoNative) assessQuality(img *nativeImage) (nativeStatus, nativeAssessment) {
	var res C.OFIQAssessmentResult
	st := C.ofiq_assess_quality(
		(*C.uint8_t)(img.ptr),
		C.int32_t(img.width),
		C.int32_t(img.height),
		C.int32_t(img.channels),
		&res,
	)
	return goStatus(st), goAssessment(res)
}

func (cgoNative) assessQualityFull(img *nativeImage) (nativeStatus, nativeAssessment, nativePreprocessing) {
	var res C.OFIQAssessmentResult
	var prep C.OFIQPreprocessingResult
	st := C.ofiq_assess_quality_full(
		(*C.uint8_t)(img.ptr),
		C.int32_t(img.width),
		C.int32_t(img.height),
		C.int32_t(img.channels),
		&res,
		&prep,
	)
	return goStatus(st), goAssessment(res), nativePreprocessing{
		faceCount:     int32(prep.face_count),
		faces:         unsafe.Pointer(prep.faces),
		landmarkCount: int32(prep.landmark_count),
		landmarks:     unsafe.Pointer(prep.landmarks),
		yaw:           float64(prep.pose_yaw),
		pitch:         float64(prep.pose_pitch),
		roll:          float64(prep.pose_roll),
	}
}

// goAssessment lifts the C result struct into the Go-side view. The measures
// pointer stays borrowed; the converter copies the elements out while it is
// still valid.
func goAssessment(res C.OFIQAssessmentResult) nativeAssessment {
	return nativeAssessment{
		count:    int32(res.measure_count),
		measures: unsafe.Pointer(res.measures),
		overall:  float64(res.overall_quality),
	}
}

func (cgoNative) version(bufSize int) (string, bool) {
	buf := make([]byte, bufSize)
	n := C.ofiq_get_version((*C.char)(unsafe.Pointer(&buf[0])), C.int32_t(len(buf)))
	if n < 0 || int(n) >= len(buf) {
		return "", false
	}
	return string(buf[:n]), true
}

func (cgoNative) cleanup() {
	C.ofiq_cleanup()
}

package ofiqruntime

import (
	"unsafe"
)

// The packed* structs reproduce the declared native layout in Go so tests can
// hand the converter real fixed-stride memory without the native library.
// Their sizes and offsets are asserted against the abi.go constants in
// abi_test.go; if those assertions hold, pointers into these slices are
// indistinguishable from pointers into ofiq_lib's result arrays.

type packedMeasure struct {
	id      int32
	_       int32
	raw     float64
	quality float64
	code    int32
	_       int32
}

type packedFaceBox struct {
	x, y, width, height int32
}

type packedLandmark struct {
	x, y float32
}

// fakeNative is a controllable nativeAPI for engine and converter tests.
// It tracks image buffer acquire/release pairing so tests can assert the
// exactly-once release property on every call path.
type fakeNative struct {
	initStatus    nativeStatus
	assessStatus  nativeStatus
	versionString string
	versionOK     bool

	measures  []packedMeasure
	overall   float64
	faces     []packedFaceBox
	landmarks []packedLandmark
	pose      HeadPose

	allocCount   int
	freeCount    int
	allocFails   bool
	lastPixels   []byte
	initCalls    int
	assessCalls  int
	cleanupCalls int
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		initStatus:   nativeStatus{Code: statusSuccess},
		assessStatus: nativeStatus{Code: statusSuccess},
		versionOK:    false,
	}
}

func (f *fakeNative) initialize(configDir, configFile string) nativeStatus {
	f.initCalls++
	return f.initStatus
}

func (f *fakeNative) assessment() nativeAssessment {
	na := nativeAssessment{count: int32(len(f.measures)), overall: f.overall}
	if len(f.measures) > 0 {
		na.measures = unsafe.Pointer(&f.measures[0])
	}
	return na
}

func (f *fakeNative) assessQuality(img *nativeImage) (nativeStatus, nativeAssessment) {
	f.assessCalls++
	if !f.assessStatus.ok() {
		return f.assessStatus, nativeAssessment{}
	}
	return f.assessStatus, f.assessment()
}

func (f *fakeNative) assessQualityFull(img *nativeImage) (nativeStatus, nativeAssessment, nativePreprocessing) {
	f.assessCalls++
	if !f.assessStatus.ok() {
		return f.assessStatus, nativeAssessment{}, nativePreprocessing{}
	}
	np := nativePreprocessing{
		faceCount:     int32(len(f.faces)),
		landmarkCount: int32(len(f.landmarks)),
		yaw:           f.pose.Yaw,
		pitch:         f.pose.Pitch,
		roll:          f.pose.Roll,
	}
	if len(f.faces) > 0 {
		np.faces = unsafe.Pointer(&f.faces[0])
	}
	if len(f.landmarks) > 0 {
		np.landmarks = unsafe.Pointer(&f.landmarks[0])
	}
	return f.assessStatus, f.assessment(), np
}

func (f *fakeNative) version(bufSize int) (string, bool) {
	return f.versionString, f.versionOK
}

func (f *fakeNative) cleanup() {
	f.cleanupCalls++
}

func (f *fakeNative) allocImage(pixels []byte, width, height, channels int) (*nativeImage, error) {
	if f.allocFails {
		return nil, &OfiqError{Op: "allocImage", Code: int(statusOutOfMemory), Message: "fake allocation failure", Err: ErrNativeCall}
	}
	f.allocCount++
	cp := make([]byte, len(pixels))
	copy(cp, pixels)
	f.lastPixels = cp
	return &nativeImage{
		ptr:      unsafe.Pointer(&cp[0]),
		width:    width,
		height:   height,
		channels: channels,
		byteLen:  len(cp),
		backing:  cp,
	}, nil
}

func (f *fakeNative) freeImage(img *nativeImage) {
	if img == nil || img.ptr == nil {
		return
	}
	f.freeCount++
	img.ptr = nil
	img.backing = nil
}

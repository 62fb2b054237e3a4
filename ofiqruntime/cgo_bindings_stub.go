//go:build !ofiq || stub

// Stub implementation of the ofiq_lib bindings for when the native library is
// not available. Build with: go build (or explicitly: go build -tags stub)
//
// In stub mode Initialize and assessment calls fail with a descriptive error;
// image staging, validation and the lifecycle machinery behave exactly as in
// the real build so callers and tests exercise the same paths.

package ofiqruntime

import "unsafe"

// stubNative is the nativeAPI implementation used without ofiq_lib.
type stubNative struct{}

// newNative returns the stub native surface.
func newNative() nativeAPI {
	return &stubNative{}
}

func (stubNative) initialize(configDir, configFile string) nativeStatus {
	return nativeStatus{
		Code: statusError,
		Message: "ofiq_lib not available (stub build). " +
			"Build with CGO and the 'ofiq' tag to enable quality assessment",
	}
}

func (stubNative) assessQuality(img *nativeImage) (nativeStatus, nativeAssessment) {
	return nativeStatus{Code: statusError, Message: "ofiq_lib not available (stub build)"}, nativeAssessment{}
}

func (stubNative) assessQualityFull(img *nativeImage) (nativeStatus, nativeAssessment, nativePreprocessing) {
	return nativeStatus{Code: statusError, Message: "ofiq_lib not available (stub build)"},
		nativeAssessment{}, nativePreprocessing{}
}

func (stubNative) version(bufSize int) (string, bool) {
	return "", false
}

func (stubNative) cleanup() {}

// allocImage copies the pixels into Go memory. The backing slice pins the
// copy for the lifetime of the staged image so ptr stays valid.
func (stubNative) allocImage(pixels []byte, width, height, channels int) (*nativeImage, error) {
	cp := make([]byte, len(pixels))
	copy(cp, pixels)
	return &nativeImage{
		ptr:      unsafe.Pointer(&cp[0]),
		width:    width,
		height:   height,
		channels: channels,
		byteLen:  len(cp),
		backing:  cp,
	}, nil
}

func (stubNative) freeImage(img *nativeImage) {
	if img == nil {
		return
	}
	img.ptr = nil
	img.backing = nil
}

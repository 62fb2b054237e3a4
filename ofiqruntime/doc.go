// Package ofiqruntime provides Go bindings to the OFIQ native library for
// facial image quality assessment per ISO/IEC 29794-5.
//
// The package wraps the ofiq_lib C ABI behind a small, safe surface: an Engine
// with an explicit lifecycle (Initialize -> AssessQuality -> Close), structured
// errors, and fully owned Go result types. No native pointer ever escapes the
// package.
//
// Architecture:
//   - cgo_bindings_ofiq.go: the cgo preamble with struct mirrors and extern
//     declarations for ofiq_lib (build tags: ofiq && cgo && !stub)
//   - cgo_bindings_stub.go: stub implementation used when the native library
//     is not linked (build tags: !ofiq || stub)
//   - abi.go: the fixed native layout (offsets, strides) and the checked
//     foreign-array reader used to walk native result arrays
//   - convert.go: the single audited routine that copies native results into
//     owned Go values
//   - engine.go: the Engine facade and its lifecycle state machine
//
// Build with the real library:
//
//	CGO_ENABLED=1 go build -tags ofiq
//
// Build without it (stub mode, assessment calls fail with a descriptive error):
//
//	go build
//
// Thread safety: an Engine serializes all operations through an instance lock,
// and all native calls in the process share one serialization point because
// ofiq_lib keeps process-global state. Only one Engine may be initialized at a
// time; a second Initialize fails with a lifecycle error until the first engine
// is closed.
package ofiqruntime

// Package ofiqruntime provides Go bindings to the OFIQ native library.
// This file translates native status codes into the structured error taxonomy.
package ofiqruntime

// unknownNativeMessage substitutes for a null native message pointer.
const unknownNativeMessage = "Unknown error"

// translateStatus converts a non-success native status into an OfiqError of
// the matching kind. The native message was already copied into the status at
// the call boundary, so nothing here touches native memory.
//
// Returns nil for a success status.
func translateStatus(op string, st nativeStatus) error {
	if st.ok() {
		return nil
	}

	msg := st.Message
	if msg == "" {
		msg = unknownNativeMessage
	}

	kind := ErrNativeCall
	switch st.Code {
	case statusConfigurationError:
		kind = ErrConfiguration
	case statusUnsupportedImageFormat:
		kind = ErrImageLoad
	}

	return &OfiqError{
		Op:      op,
		Code:    int(st.Code),
		Message: msg,
		Err:     kind,
	}
}

package db

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint computes the BLAKE2b-256 hex digest of a pixel buffer.
// It is stored alongside assessment records so repeated assessments of
// identical pixel content can be correlated regardless of file path.
func Fingerprint(pixels []byte) string {
	sum := blake2b.Sum256(pixels)
	return hex.EncodeToString(sum[:])
}

package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256 returns the hex-encoded SHA-256 digest of input.
func SHA256(input string) string {
	return SHA256Bytes([]byte(input))
}

// SHA256Bytes returns the hex-encoded SHA-256 digest of input.
func SHA256Bytes(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}

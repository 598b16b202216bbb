// Package utils provides general-purpose helper utilities
// used across different parts of the application.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash computes the SHA-256 digest of data and returns it hex-encoded.
// It is the canonical content hash stored in item metadata and deletion jobs.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChainHash computes the SHA-256 digest over the concatenation of parts and
// returns it hex-encoded. Used for audit-chain links and document self-hashes
// where the input is already a canonical byte layout.
func ChainHash(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the authenticated-encryption primitive used to
// seal vault payloads and the key-provider boundary that wraps and unwraps
// per-item data-encryption keys.
package crypto

import "context"

// Health is the self-reported state of a key provider.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthDegraded  Health = "degraded"
	HealthUnhealthy Health = "unhealthy"
)

// CipherEngine is a stateless AEAD primitive: a pure function of
// (key, nonce, plaintext/ciphertext, associated data). Implementations must
// generate a fresh random nonce for every Seal call; nonce reuse under one
// key breaks the AEAD guarantees.
type CipherEngine interface {
	// Seal encrypts plaintext under key, authenticating aad. It returns
	// the generated nonce, the ciphertext (same length as the plaintext)
	// and the authentication tag.
	Seal(key, plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error)

	// Open decrypts ciphertext ‖ tag produced by Seal. It fails when the
	// key is wrong, the aad differs, or the ciphertext was tampered with.
	Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error)

	// Algorithm returns the algorithm identifier stored in item metadata.
	Algorithm() string

	// Overhead returns the authentication tag size in bytes.
	Overhead() int
}

// KeyProvider issues and unwraps per-item data-encryption keys. The vault
// never manages raw master key material itself; it only holds unwrapped
// data keys in memory for the duration of the process.
type KeyProvider interface {
	// WrapDataKey generates a fresh data-encryption key, wraps it under
	// the provider's master key and returns the wrapped blob together
	// with an opaque key id.
	WrapDataKey(ctx context.Context) (wrapped []byte, keyID string, err error)

	// UnwrapDataKey recovers the raw data key from a wrapped blob.
	UnwrapDataKey(ctx context.Context, wrapped []byte) ([]byte, error)

	// HealthStatus reports the provider's availability. Callers must
	// refuse to initialize against an unhealthy provider.
	HealthStatus(ctx context.Context) Health
}

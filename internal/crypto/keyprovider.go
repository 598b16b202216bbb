// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// localKeyProvider is the default implementation of [KeyProvider]. It
// derives a key-encryption key (KEK) from a passphrase with Argon2id and
// wraps random 32-byte data keys under it with AES-256-GCM. The KEK exists
// only in process memory and is never persisted or transmitted.
//
// Deployments with an external KMS swap this implementation for a remote
// one behind the same interface.
type localKeyProvider struct {
	kek []byte

	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewLocalKeyProvider constructs a [KeyProvider] whose KEK is derived from
// passphrase and salt using Argon2id with the parameters recommended by
// OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewLocalKeyProvider(passphrase string, salt []byte) KeyProvider {
	p := &localKeyProvider{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
	p.kek = argon2.IDKey([]byte(passphrase), salt, p.argonTime, p.argonMemory, p.argonThreads, p.argonKeyLen)
	return p
}

// GenerateSalt reads 16 random bytes from the OS CSPRNG for use as the
// Argon2id salt of a new provider.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// WrapDataKey implements [KeyProvider]. It draws a fresh 32-byte data key
// from the OS CSPRNG and wraps it with the KEK using AES-256-GCM. A random
// 12-byte nonce is prepended to the ciphertext so that the unwrap side can
// locate it: blob = nonce ‖ ciphertext.
//
// The key id is the first 16 hex characters of the SHA-256 digest of the
// wrapped blob, opaque but stable for a given wrapping.
func (p *localKeyProvider) WrapDataKey(ctx context.Context) ([]byte, string, error) {
	dek := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, dek); err != nil {
		return nil, "", fmt.Errorf("generate data key: %w", err)
	}

	gcm, err := newGCM(p.kek)
	if err != nil {
		return nil, "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, "", fmt.Errorf("generate nonce: %w", err)
	}

	wrapped := append(nonce, gcm.Seal(nil, nonce, dek, nil)...)
	return wrapped, keyID(wrapped), nil
}

// UnwrapDataKey implements [KeyProvider]. It unwraps the blob produced by
// [localKeyProvider.WrapDataKey]. The blob must be at least as long as the
// GCM nonce (12 bytes). An authentication-tag mismatch almost always means
// the provider was constructed with the wrong passphrase.
func (p *localKeyProvider) UnwrapDataKey(ctx context.Context, wrapped []byte) ([]byte, error) {
	gcm, err := newGCM(p.kek)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(wrapped) < nonceSize {
		return nil, fmt.Errorf("wrapped key too short")
	}

	nonce, ciphertext := wrapped[:nonceSize], wrapped[nonceSize:]
	dek, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("unwrap data key: %w", err)
	}

	return dek, nil
}

// HealthStatus implements [KeyProvider]. The local provider verifies that
// its KEK still produces a working cipher; anything else is unhealthy.
func (p *localKeyProvider) HealthStatus(ctx context.Context) Health {
	if len(p.kek) != 32 {
		return HealthUnhealthy
	}
	if _, err := aes.NewCipher(p.kek); err != nil {
		return HealthUnhealthy
	}
	return HealthHealthy
}

func keyID(wrapped []byte) string {
	sum := sha256.Sum256(wrapped)
	return hex.EncodeToString(sum[:])[:16]
}

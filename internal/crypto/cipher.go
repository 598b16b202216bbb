// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// gcmEngine is the private AES-256-GCM implementation of [CipherEngine].
type gcmEngine struct{}

// NewGCMEngine constructs the AES-256-GCM [CipherEngine]. Keys must be
// 32 bytes; the nonce is 12 bytes and the tag 16 bytes, the standard GCM
// parameters.
func NewGCMEngine() CipherEngine {
	return &gcmEngine{}
}

// Algorithm implements [CipherEngine].
func (e *gcmEngine) Algorithm() string {
	return "AES-256-GCM"
}

// Overhead implements [CipherEngine]. GCM appends a 16-byte tag.
func (e *gcmEngine) Overhead() int {
	return 16
}

// Seal implements [CipherEngine]. A fresh random nonce is drawn from the OS
// CSPRNG for every call; the GCM output is split so the ciphertext body and
// the authentication tag can be stored separately.
func (e *gcmEngine) Seal(key, plaintext, aad []byte) ([]byte, []byte, []byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, aad)

	// Seal output is ciphertext ‖ tag; split at the tag boundary.
	cut := len(sealed) - gcm.Overhead()
	return nonce, sealed[:cut], sealed[cut:], nil
}

// Open implements [CipherEngine]. An error almost always means the wrong
// data key was supplied or the stored blob was corrupted or tampered with.
func (e *gcmEngine) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("decrypt data: %w", err)
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}

package crypto

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestGCMEngine_RoundTrip(t *testing.T) {
	engine := NewGCMEngine()

	plaintext := []byte("vault payload under test")
	aad := []byte("item-1")

	nonce, ciphertext, tag, err := engine.Seal(testKey(), plaintext, aad)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if len(nonce) != 12 {
		t.Fatalf("nonce length = %d, want 12", len(nonce))
	}
	if len(tag) != engine.Overhead() {
		t.Fatalf("tag length = %d, want %d", len(tag), engine.Overhead())
	}
	if len(ciphertext) != len(plaintext) {
		t.Fatalf("ciphertext length = %d, want plaintext length %d", len(ciphertext), len(plaintext))
	}

	got, err := engine.Open(testKey(), nonce, ciphertext, tag, aad)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestGCMEngine_NonceUniquePerSeal(t *testing.T) {
	engine := NewGCMEngine()

	n1, _, _, err := engine.Seal(testKey(), []byte("same"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	n2, _, _, err := engine.Seal(testKey(), []byte("same"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if bytes.Equal(n1, n2) {
		t.Fatalf("expected nonces to differ, but they are equal")
	}
}

func TestGCMEngine_TamperedCiphertextFails(t *testing.T) {
	engine := NewGCMEngine()

	nonce, ciphertext, tag, err := engine.Seal(testKey(), []byte("sensitive"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	ciphertext[0] ^= 0xFF
	if _, err := engine.Open(testKey(), nonce, ciphertext, tag, nil); err == nil {
		t.Fatalf("expected error opening tampered ciphertext, got nil")
	}
}

func TestGCMEngine_WrongAADFails(t *testing.T) {
	engine := NewGCMEngine()

	nonce, ciphertext, tag, err := engine.Seal(testKey(), []byte("sensitive"), []byte("item-a"))
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if _, err := engine.Open(testKey(), nonce, ciphertext, tag, []byte("item-b")); err == nil {
		t.Fatalf("expected error opening with wrong aad, got nil")
	}
}

func TestGCMEngine_WrongKeyFails(t *testing.T) {
	engine := NewGCMEngine()

	nonce, ciphertext, tag, err := engine.Seal(testKey(), []byte("sensitive"), nil)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	wrong := bytes.Repeat([]byte{0x24}, 32)
	if _, err := engine.Open(wrong, nonce, ciphertext, tag, nil); err == nil {
		t.Fatalf("expected error opening with wrong key, got nil")
	}
}

package crypto

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalKeyProvider_WrapUnwrapRoundTrip(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, 16)
	provider := NewLocalKeyProvider("correct horse battery staple", salt)

	wrapped, keyID, err := provider.WrapDataKey(context.Background())
	if err != nil {
		t.Fatalf("WrapDataKey error: %v", err)
	}
	if keyID == "" {
		t.Fatalf("expected non-empty key id")
	}

	dek, err := provider.UnwrapDataKey(context.Background(), wrapped)
	if err != nil {
		t.Fatalf("UnwrapDataKey error: %v", err)
	}
	if len(dek) != 32 {
		t.Fatalf("DEK length = %d, want 32", len(dek))
	}
}

func TestLocalKeyProvider_WrapProducesFreshKeys(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, 16)
	provider := NewLocalKeyProvider("passphrase", salt)

	w1, id1, err := provider.WrapDataKey(context.Background())
	if err != nil {
		t.Fatalf("WrapDataKey error: %v", err)
	}
	w2, id2, err := provider.WrapDataKey(context.Background())
	if err != nil {
		t.Fatalf("WrapDataKey error: %v", err)
	}

	if bytes.Equal(w1, w2) {
		t.Fatalf("expected wrapped keys to differ, but they are equal")
	}
	if id1 == id2 {
		t.Fatalf("expected key ids to differ, but both are %q", id1)
	}
}

func TestLocalKeyProvider_WrongPassphraseFailsUnwrap(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, 16)
	provider := NewLocalKeyProvider("right passphrase", salt)

	wrapped, _, err := provider.WrapDataKey(context.Background())
	if err != nil {
		t.Fatalf("WrapDataKey error: %v", err)
	}

	other := NewLocalKeyProvider("wrong passphrase", salt)
	if _, err := other.UnwrapDataKey(context.Background(), wrapped); err == nil {
		t.Fatalf("expected unwrap with wrong passphrase to fail, got nil")
	}
}

func TestLocalKeyProvider_TruncatedBlobFailsUnwrap(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, 16)
	provider := NewLocalKeyProvider("passphrase", salt)

	if _, err := provider.UnwrapDataKey(context.Background(), []byte{0x01, 0x02}); err == nil {
		t.Fatalf("expected unwrap of truncated blob to fail, got nil")
	}
}

func TestLocalKeyProvider_Healthy(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, 16)
	provider := NewLocalKeyProvider("passphrase", salt)

	if got := provider.HealthStatus(context.Background()); got != HealthHealthy {
		t.Fatalf("HealthStatus = %q, want %q", got, HealthHealthy)
	}
}

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	s1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"securechat/internal/crypto"
	"securechat/internal/domain"
)

func TestDeriveSessionKey_OrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "carol"},
		{"z", "a"},
		{"user-1", "user-2"},
	}
	for _, p := range pairs {
		ab := crypto.DeriveSessionKey(p[0], p[1])
		ba := crypto.DeriveSessionKey(p[1], p[0])
		if !bytes.Equal(ab, ba) {
			t.Fatalf("session key for (%s,%s) differs by argument order", p[0], p[1])
		}
		if len(ab) != crypto.SessionKeyBytes {
			t.Fatalf("session key is %d bytes, want %d", len(ab), crypto.SessionKeyBytes)
		}
	}
}

func TestDeriveSessionKey_DistinctPairs(t *testing.T) {
	k1 := crypto.DeriveSessionKey("alice", "bob")
	k2 := crypto.DeriveSessionKey("alice", "carol")
	if bytes.Equal(k1, k2) {
		t.Fatal("different identity pairs produced the same session key")
	}
}

func TestDeriveMessageKey_UniquePerSequence(t *testing.T) {
	sk := crypto.DeriveSessionKey("alice", "bob")
	seen := make(map[string]uint64)
	for _, seq := range []uint64{0, 1, 2, 999, 1000, 1001, 1 << 40} {
		mk := crypto.DeriveMessageKey(sk, seq)
		if prev, dup := seen[string(mk)]; dup {
			t.Fatalf("message key collision between seq %d and %d", prev, seq)
		}
		seen[string(mk)] = seq
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	sk := crypto.DeriveSessionKey("alice", "bob")
	plaintexts := [][]byte{
		[]byte("hello"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 4096),
	}
	for _, pt := range plaintexts {
		blob, err := crypto.EncryptMessage(sk, 1000, pt)
		if err != nil {
			t.Fatalf("EncryptMessage: %v", err)
		}
		got, err := crypto.DecryptMessage(sk, 1000, blob)
		if err != nil {
			t.Fatalf("DecryptMessage: %v", err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("round trip mismatch: got %q want %q", got, pt)
		}
	}
}

func TestDecrypt_WrongSequenceFails(t *testing.T) {
	sk := crypto.DeriveSessionKey("alice", "bob")
	blob, err := crypto.EncryptMessage(sk, 1000, []byte("hello"))
	if err != nil {
		t.Fatalf("EncryptMessage: %v", err)
	}
	if _, err := crypto.DecryptMessage(sk, 1001, blob); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("decrypt with wrong seq: got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_AnyBitFlipFails(t *testing.T) {
	sk := crypto.DeriveSessionKey("alice", "bob")
	blob, err := crypto.EncryptMessage(sk, 7, []byte("hi"))
	if err != nil {
		t.Fatalf("EncryptMessage: %v", err)
	}
	raw, err := crypto.B64Decode(blob)
	if err != nil {
		t.Fatalf("B64Decode: %v", err)
	}

	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), raw...)
			tampered[i] ^= 1 << bit
			_, err := crypto.DecryptMessage(sk, 7, crypto.B64(tampered))
			if !errors.Is(err, domain.ErrDecryptionFailed) {
				t.Fatalf("flip byte %d bit %d: got %v, want ErrDecryptionFailed", i, bit, err)
			}
		}
	}
}

func TestDecrypt_MalformedBlob(t *testing.T) {
	sk := crypto.DeriveSessionKey("alice", "bob")

	var cryptoErr *domain.CryptoOpError
	if _, err := crypto.DecryptMessage(sk, 1, "not base64!!"); !errors.As(err, &cryptoErr) {
		t.Fatalf("bad base64: got %v, want CryptoOpError", err)
	}
	if _, err := crypto.DecryptMessage(sk, 1, crypto.B64([]byte("short"))); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("truncated blob: got %v, want ErrDecryptionFailed", err)
	}
}

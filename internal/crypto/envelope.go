package crypto

import (
	"securechat/internal/domain"
	"securechat/internal/util/memzero"
)

// EncryptMessage encrypts one message under the per-sequence-number key.
//
// It derives the message key, runs AES-256-GCM with a fresh 96-bit IV and
// returns base64(IV || ciphertext || tag) for transport. Binding the key to
// the sequence number means compromising one message's key leaks nothing
// about the others.
func EncryptMessage(sessionKey []byte, seqNo uint64, plaintext []byte) (string, error) {
	key := DeriveMessageKey(sessionKey, seqNo)
	defer memzero.Zero(key)

	iv, ct, err := gcmSeal(key, plaintext)
	if err != nil {
		return "", err
	}
	blob := make([]byte, 0, len(iv)+len(ct))
	blob = append(blob, iv...)
	blob = append(blob, ct...)
	return B64(blob), nil
}

// DecryptMessage reverses EncryptMessage.
//
// A failed authentication tag surfaces as ErrDecryptionFailed; tampering,
// a wrong key and transport corruption are indistinguishable by design.
func DecryptMessage(sessionKey []byte, seqNo uint64, blob string) ([]byte, error) {
	raw, err := B64Decode(blob)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "decode ciphertext", Err: err}
	}
	if len(raw) <= IVBytes {
		return nil, domain.ErrDecryptionFailed
	}
	key := DeriveMessageKey(sessionKey, seqNo)
	defer memzero.Zero(key)

	return gcmOpen(key, raw[:IVBytes], raw[IVBytes:])
}

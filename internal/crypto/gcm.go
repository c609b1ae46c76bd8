package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"securechat/internal/domain"
)

// IVBytes is the AES-GCM nonce size used everywhere in the core.
const IVBytes = 12

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "init AES-GCM", Err: err}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "init AES-GCM", Err: err}
	}
	return aead, nil
}

// gcmSeal encrypts plaintext under key with a fresh random IV.
func gcmSeal(key, plaintext []byte) (iv, ct []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	iv = make([]byte, IVBytes)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, &domain.CryptoOpError{Op: "generate IV", Err: err}
	}
	return iv, aead.Seal(nil, iv, plaintext, nil), nil
}

// gcmOpen decrypts ct under key. A tag mismatch is ErrDecryptionFailed.
func gcmOpen(key, iv, ct []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != IVBytes {
		return nil, domain.ErrDecryptionFailed
	}
	pt, err := aead.Open(nil, iv, ct, nil)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	return pt, nil
}

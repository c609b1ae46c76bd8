package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"

	"securechat/internal/domain"
)

const (
	// RSABits is the modulus size of the encryption key pair.
	RSABits = 2048
)

// GenerateEncryptionKeyPair returns a fresh RSA-2048 key pair for OAEP
// encryption. This is deliberately separate key material from the signing
// pair.
func GenerateEncryptionKeyPair() (*rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, RSABits)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "generate encryption key pair", Err: err}
	}
	return priv, nil
}

// GenerateSigningKeyPair returns a fresh ECDSA key pair over P-256.
func GenerateSigningKeyPair() (*ecdsa.PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "generate signing key pair", Err: err}
	}
	return priv, nil
}

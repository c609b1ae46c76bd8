package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"

	"securechat/internal/domain"
	"securechat/internal/util/memzero"
)

const (
	// PassphraseIterations is the PBKDF2-HMAC-SHA-512 work factor. It is a
	// published protocol constant; changing it is a versioned protocol
	// change, never a silent one.
	PassphraseIterations = 310_000

	// SaltBytes is the size of the per-session passphrase salt.
	SaltBytes = 16

	passphraseKeyBytes = 32
)

// RandomSalt returns a fresh passphrase salt.
func RandomSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, &domain.CryptoOpError{Op: "generate salt", Err: err}
	}
	return salt, nil
}

// WrapSessionKeyFor encrypts a raw session key under a participant's RSA
// public key with OAEP/SHA-256. This is the inner layer of the hardened
// session wrapping; only the holder of the matching private key can remove
// it.
func WrapSessionKeyFor(pub *rsa.PublicKey, sessionKey []byte) ([]byte, error) {
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, sessionKey, nil)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "wrap session key", Err: err}
	}
	return wrapped, nil
}

// WrapWithPassphrase adds the outer layer: a key derived from the
// passphrase via PBKDF2-HMAC-SHA-512, then AES-256-GCM with a fresh IV
// over the asymmetrically wrapped blob.
func WrapWithPassphrase(wrapped []byte, passphrase string, salt []byte) (ct, iv []byte, err error) {
	kek := passphraseKey(passphrase, salt)
	defer memzero.Zero(kek)

	iv, ct, err = gcmSeal(kek, wrapped)
	if err != nil {
		return nil, nil, err
	}
	return ct, iv, nil
}

// UnwrapWithPassphrase removes the outer passphrase layer. A wrong
// passphrase fails the AEAD tag with no recovery; callers must treat that
// identically to "wrong passphrase".
func UnwrapWithPassphrase(ct, iv []byte, passphrase string, salt []byte) ([]byte, error) {
	kek := passphraseKey(passphrase, salt)
	defer memzero.Zero(kek)

	return gcmOpen(kek, iv, ct)
}

// UnwrapSessionKey removes both layers: the passphrase layer, then the
// participant's own RSA-OAEP layer.
func UnwrapSessionKey(ct, iv []byte, passphrase string, salt []byte, priv *rsa.PrivateKey) ([]byte, error) {
	wrapped, err := UnwrapWithPassphrase(ct, iv, passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(wrapped)

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, wrapped, nil)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "unwrap session key", Err: err}
	}
	return key, nil
}

// verifierLabel extends the salt when deriving the stored verifier, so the
// verifier and the wrapping key come from different PBKDF2 inputs and
// share no bytes.
var verifierLabel = []byte("verifier.v1")

// HashPassphrase derives the passphrase verifier with the same PBKDF2 cost
// parameters as the wrapping key but over a label-extended salt. The
// verifier lets the coordinating side judge an unlock attempt without
// receiving the passphrase; it cannot open the passphrase-wrapped blob.
func HashPassphrase(passphrase string, salt []byte) []byte {
	vsalt := make([]byte, 0, len(salt)+len(verifierLabel))
	vsalt = append(vsalt, salt...)
	vsalt = append(vsalt, verifierLabel...)
	return passphraseKey(passphrase, vsalt)
}

func passphraseKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, PassphraseIterations, passphraseKeyBytes, sha512.New)
}

package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"securechat/internal/domain"
)

// SignatureBytes is the length of every signature: the two P-256 scalars
// in the fixed raw (IEEE P1363) concatenation. This is the single mandated
// wire encoding; producers and verifiers never fall back to ASN.1/DER.
const SignatureBytes = 64

const scalarBytes = SignatureBytes / 2

// Sign signs SHA-256(data) with the ECDSA private key and returns the raw
// 64-byte r||s encoding.
func Sign(priv *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "sign", Err: err}
	}
	sig := make([]byte, SignatureBytes)
	r.FillBytes(sig[:scalarBytes])
	s.FillBytes(sig[scalarBytes:])
	return sig, nil
}

// Verify checks a raw r||s signature over SHA-256(data).
//
// Any signature that is not exactly 64 bytes fails outright; a mismatched
// encoding is a configuration bug that must surface, not be masked by
// retrying alternate encodings.
func Verify(pub *ecdsa.PublicKey, data, sig []byte) bool {
	if len(sig) != SignatureBytes {
		return false
	}
	digest := sha256.Sum256(data)
	r := new(big.Int).SetBytes(sig[:scalarBytes])
	s := new(big.Int).SetBytes(sig[scalarBytes:])
	return ecdsa.Verify(pub, digest[:], r, s)
}

package crypto

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"securechat/internal/domain"
)

const publicKeyPEMType = "PUBLIC KEY"

// ExportPublicKey encodes an RSA or ECDSA public key as SubjectPublicKeyInfo
// wrapped in a PEM envelope. The encoding is self-describing, so a remote
// verifier can reconstruct the correct key type without side information.
func ExportPublicKey(pub any) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", &domain.CryptoOpError{Op: "export public key", Err: err}
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMType, Bytes: der})), nil
}

// ImportPublicKey parses a SPKI PEM public key of either supported type.
func ImportPublicKey(text string) (any, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil || block.Type != publicKeyPEMType {
		return nil, &domain.CryptoOpError{Op: "import public key", Err: errors.New("no PUBLIC KEY PEM block")}
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "import public key", Err: err}
	}
	return pub, nil
}

// ImportEncryptionPublicKey parses a SPKI PEM RSA public key.
func ImportEncryptionPublicKey(text string) (*rsa.PublicKey, error) {
	pub, err := ImportPublicKey(text)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, &domain.CryptoOpError{
			Op:  "import encryption public key",
			Err: fmt.Errorf("unexpected key type %T", pub),
		}
	}
	return rsaPub, nil
}

// ImportSigningPublicKey parses a SPKI PEM ECDSA public key.
func ImportSigningPublicKey(text string) (*ecdsa.PublicKey, error) {
	pub, err := ImportPublicKey(text)
	if err != nil {
		return nil, err
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, &domain.CryptoOpError{
			Op:  "import signing public key",
			Err: fmt.Errorf("unexpected key type %T", pub),
		}
	}
	return ecPub, nil
}

// ExportPrivateKey encodes a private key as PKCS#8 DER.
func ExportPrivateKey(priv any) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "export private key", Err: err}
	}
	return der, nil
}

// ImportEncryptionPrivateKey parses a PKCS#8 DER RSA private key.
func ImportEncryptionPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "import encryption private key", Err: err}
	}
	rsaPriv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, &domain.CryptoOpError{
			Op:  "import encryption private key",
			Err: fmt.Errorf("unexpected key type %T", key),
		}
	}
	return rsaPriv, nil
}

// ImportSigningPrivateKey parses a PKCS#8 DER ECDSA private key.
func ImportSigningPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, &domain.CryptoOpError{Op: "import signing private key", Err: err}
	}
	ecPriv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, &domain.CryptoOpError{
			Op:  "import signing private key",
			Err: fmt.Errorf("unexpected key type %T", key),
		}
	}
	return ecPriv, nil
}

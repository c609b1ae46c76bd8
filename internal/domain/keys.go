package domain

import (
	"crypto/ecdsa"
	"crypto/rsa"
)

// Keyring is the portable form of the local private key material.
// Both keys are PKCS#8 DER; the keyring is only ever stored encrypted.
type Keyring struct {
	Identity      Identity `json:"identity"`
	Contact       string   `json:"contact,omitempty"`
	EncryptionKey []byte   `json:"encryption_key"`
	SigningKey    []byte   `json:"signing_key"`
}

// LocalKeys holds the parsed private keys for the local identity.
//
// The encryption pair (RSA-OAEP) and signing pair (ECDSA P-256) are
// intentionally independent key material: compromise of one must not
// compromise the other.
type LocalKeys struct {
	Identity   Identity
	Contact    string
	Encryption *rsa.PrivateKey
	Signing    *ecdsa.PrivateKey
}

package domain

import "sort"

// Identity is a directory-registered user identity.
type Identity string

// String returns the string form of the identity.
func (i Identity) String() string { return string(i) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// PairID returns the canonical conversation identifier for two identities.
// It is order-independent so both sides address the same conversation.
func PairID(a, b Identity) string {
	ids := []string{string(a), string(b)}
	sort.Strings(ids)
	return ids[0] + "|" + ids[1]
}

// PublicKeyRecord is the directory entry for one identity: the public
// halves of both key pairs plus an out-of-band contact address used for
// lockdown notifications. Both keys are SubjectPublicKeyInfo PEM.
type PublicKeyRecord struct {
	Identity      Identity `json:"identity"`
	EncryptionPEM string   `json:"encryption_pem"`
	SigningPEM    string   `json:"signing_pem"`
	Contact       string   `json:"contact,omitempty"`
}

package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"securechat/internal/domain"
)

const (
	// SessionKeyBytes is the size of every symmetric session key.
	SessionKeyBytes = 32

	sessionKeySeparator = "|"
)

// DeriveSessionKey computes the deterministic session key for two
// identities: SHA-256 over the lexicographically sorted pair joined with a
// fixed separator. Either participant can recompute it independently, with
// no storage and no key-exchange round trip.
//
// DeriveSessionKey(a, b) == DeriveSessionKey(b, a) for all identity pairs.
func DeriveSessionKey(a, b string) []byte {
	if a > b {
		a, b = b, a
	}
	sum := sha256.Sum256([]byte(a + sessionKeySeparator + b))
	return sum[:]
}

// RandomSessionKey returns a fresh 256-bit session key for hardened
// sessions. It is never derivable from the participant identities.
func RandomSessionKey() ([]byte, error) {
	key := make([]byte, SessionKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, &domain.CryptoOpError{Op: "generate session key", Err: err}
	}
	return key, nil
}

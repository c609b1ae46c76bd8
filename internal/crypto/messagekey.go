package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"strconv"
)

// DeriveMessageKey derives the symmetric key for one message:
// HMAC-SHA-256 keyed with the session key over the decimal form of the
// sequence number. Callers must not reuse a sequence number under the same
// session key; a monotonic timestamp or counter satisfies this.
func DeriveMessageKey(sessionKey []byte, seqNo uint64) []byte {
	mac := hmac.New(sha256.New, sessionKey)
	mac.Write([]byte(strconv.FormatUint(seqNo, 10)))
	return mac.Sum(nil)
}

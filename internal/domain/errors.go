package domain

import "errors"

var (
	// ErrDecryptionFailed reports an AEAD tag mismatch: tampering, a wrong
	// key, a wrong sequence number or transport corruption all surface the
	// same way. Callers should keep the encrypted content around rather
	// than discard the message.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")

	// ErrSessionLocked is the normal terminal-state response when an
	// operation targets a locked session.
	ErrSessionLocked = errors.New("session is locked")

	// ErrSessionNotFound is returned when no hardened session exists with
	// the given identifier.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAttemptConflict reports a conditional attempt-counter update that
	// lost a race. The caller's per-session serialization should make this
	// impossible; it fails loudly instead of clobbering the counter.
	ErrAttemptConflict = errors.New("attempt counter changed concurrently")

	// ErrUnknownIdentity is returned when an identity has no directory entry.
	ErrUnknownIdentity = errors.New("identity not registered in key directory")
)

// CryptoOpError wraps a failed cryptographic operation: malformed key
// material, unsupported parameters or RNG unavailability. Fatal to the
// single operation, never swallowed.
type CryptoOpError struct {
	Op  string
	Err error
}

func (e *CryptoOpError) Error() string { return "crypto: " + e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying cause.
func (e *CryptoOpError) Unwrap() error { return e.Err }

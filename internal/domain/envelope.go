package domain

// VerificationStatus is the tri-state outcome of signature verification.
// It is a value, not an error: an absent or failed signature is an
// expected, UI-visible condition.
type VerificationStatus string

const (
	// VerificationValid means the signature checked out against the
	// sender's registered signing key.
	VerificationValid VerificationStatus = "valid"
	// VerificationInvalid means a signature was present but did not verify.
	VerificationInvalid VerificationStatus = "invalid"
	// VerificationUnsigned means no signature was present, or the sender's
	// signing key is unknown. Verification is advisory, not a delivery gate.
	VerificationUnsigned VerificationStatus = "unsigned"
)

// Envelope is the wire message exchanged between participants.
//
// Cipher is the transport-encoded ciphertext: base64 of the IV followed by
// the AEAD ciphertext and tag. Signature is the raw 64-byte ECDSA signature
// over the Cipher bytes as transported; it is optional for backward
// compatibility with unsigned senders. An envelope is never mutated after
// creation.
type Envelope struct {
	From      Identity `json:"from"`
	To        Identity `json:"to"`
	SeqNo     uint64   `json:"seq_no"`
	Cipher    string   `json:"cipher"`
	Signature []byte   `json:"signature,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// OpenedMessage is the receiver-side view of an envelope after decryption
// and verification. The original envelope is preserved so callers can keep
// the still-encrypted content around when decryption fails.
type OpenedMessage struct {
	Envelope     Envelope           `json:"envelope"`
	Plaintext    []byte             `json:"plaintext,omitempty"`
	Verification VerificationStatus `json:"verification"`
}

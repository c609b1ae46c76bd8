package domain

// SessionStatus is the lifecycle state of a hardened session.
// Transitions are one-way: Active to Locked, or Active to Deleted.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionLocked  SessionStatus = "locked"
	SessionDeleted SessionStatus = "deleted"
)

// DefaultMaxAttempts is the failed-unlock threshold that triggers lockdown.
const DefaultMaxAttempts = 3

// HardenedSession is a passphrase-gated conversation.
//
// WrappedKeyA and WrappedKeyB each encode the same random session key,
// wrapped first under the respective participant's RSA public key and then
// under the passphrase-derived key, so each side can only unwrap its own
// copy. Verifier is the PBKDF2 hash of the passphrase; it lets the
// coordinating side drive the attempt counter without ever seeing the
// passphrase, and is not sufficient on its own to unwrap the key.
type HardenedSession struct {
	ID            string        `json:"id"`
	ParticipantA  Identity      `json:"participant_a"`
	ParticipantB  Identity      `json:"participant_b"`
	WrappedKeyA   []byte        `json:"wrapped_key_a"`
	WrappedKeyB   []byte        `json:"wrapped_key_b"`
	IVA           []byte        `json:"iv_a"`
	IVB           []byte        `json:"iv_b"`
	Salt          []byte        `json:"salt"`
	Verifier      []byte        `json:"verifier"`
	WrongAttempts int           `json:"wrong_attempts"`
	MaxAttempts   int           `json:"max_attempts"`
	Status        SessionStatus `json:"status"`
	CreatedAt     int64         `json:"created_at"`
	LastAccessAt  int64         `json:"last_access_at,omitempty"`
	LockedAt      int64         `json:"locked_at,omitempty"`
}

// WrappedFor returns the wrapped key material belonging to id.
func (s HardenedSession) WrappedFor(id Identity) (wrapped, iv []byte, ok bool) {
	switch id {
	case s.ParticipantA:
		return s.WrappedKeyA, s.IVA, true
	case s.ParticipantB:
		return s.WrappedKeyB, s.IVB, true
	}
	return nil, nil, false
}

// Participants returns both session members.
func (s HardenedSession) Participants() []Identity {
	return []Identity{s.ParticipantA, s.ParticipantB}
}

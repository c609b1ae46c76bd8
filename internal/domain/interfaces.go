package domain

import "context"

// KeyDirectory stores published public keys by identity.
type KeyDirectory interface {
	PublicKeys(id Identity) (PublicKeyRecord, bool, error)
	SetPublicKeys(rec PublicKeyRecord) error
}

// KeyringStore persists the local private key material, encrypted with the
// owner's passphrase. Private keys never leave the local process through
// any other interface.
type KeyringStore interface {
	SaveKeyring(passphrase string, kr Keyring) error
	LoadKeyring(passphrase string) (Keyring, error)
}

// SessionStore persists hardened sessions.
//
// UpdateAttempts is a conditional update: it must fail with
// ErrAttemptConflict when the stored counter no longer equals
// expectAttempts, so a racing writer cannot let an extra attempt slip
// through at the lockdown threshold.
type SessionStore interface {
	CreateSession(s HardenedSession) error
	Session(id string) (HardenedSession, bool, error)
	UpdateAttempts(id string, expectAttempts, newAttempts int, status SessionStatus) error
	MarkAccessed(id string, at int64) error
	MarkLocked(id string, lockedAt int64) error
	MarkDeleted(id string) error
}

// MessageStore persists message envelopes per conversation or session.
type MessageStore interface {
	AppendEnvelope(conversationID string, env Envelope) error
	ExportMessages(conversationID string) ([]Envelope, error)
	DeleteMessages(conversationID string) (int, error)
}

// EventLog is the append-only security audit record. Append never mutates
// or removes prior entries; List is the read-only view, optionally
// filtered by session.
type EventLog interface {
	Append(ev SecurityEvent) error
	List(sessionID string) ([]SecurityEvent, error)
}

// Transport pushes envelopes to currently connected identities.
// Delivery is fire-and-forget: an unreachable identity is a silent no-op
// and the undelivered copy stays queued in the message store.
type Transport interface {
	Push(id Identity, env Envelope)
}

// ArchiveMetadata describes a lockdown export archive.
type ArchiveMetadata struct {
	SessionID string
	Filename  string
	Encrypted bool
}

// Notifier delivers lockdown archives to out-of-band contact addresses.
// A delivery failure is reported through the error, never raised further;
// it must not block the destructive wipe.
type Notifier interface {
	SendArchive(ctx context.Context, address string, archive []byte, meta ArchiveMetadata) error
}

// KeyringService manages the local identity's key pairs.
type KeyringService interface {
	Init(passphrase string, id Identity, contact string) (Fingerprint, error)
	Load(passphrase string) (LocalKeys, error)
	FingerprintIdentity(passphrase string) (Fingerprint, error)
	ImportPeer(rec PublicKeyRecord) error
}

// MessageService encrypts, signs and stores outbound envelopes and opens
// inbound ones.
type MessageService interface {
	Send(ctx context.Context, passphrase string, to Identity, seqNo uint64, plaintext []byte) (Envelope, error)
	Open(env Envelope) (OpenedMessage, error)
}

// HardenedService manages passphrase-gated sessions and their lifecycle.
type HardenedService interface {
	Create(ctx context.Context, a, b Identity, passphrase string) (HardenedSession, error)
	Unlock(ctx context.Context, id string, who Identity, passphrase string) (UnlockResult, error)
	RecordAttempt(ctx context.Context, id string, success bool) (HardenedSession, error)
	Delete(ctx context.Context, id string) error
	Session(id string) (HardenedSession, bool, error)
	Events(sessionID string) ([]SecurityEvent, error)
}

// UnlockResult reports the outcome of an unlock attempt. On a match the
// caller receives its wrapped key copy and unwraps client-side with the
// passphrase and its own RSA private key; the service never handles the
// raw session key during unlock.
type UnlockResult struct {
	Match      bool
	Locked     bool
	Attempts   int
	WrappedKey []byte
	IV         []byte
	Salt       []byte
}

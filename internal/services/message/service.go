package message

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"securechat/internal/crypto"
	"securechat/internal/domain"
)

// Service sends and receives envelopes over the deterministic session key
// shared by each identity pair.
type Service struct {
	keyring   domain.KeyringService
	dir       domain.KeyDirectory
	messages  domain.MessageStore
	events    domain.EventLog
	transport domain.Transport
}

// New constructs a message service with the given collaborators.
func New(
	keyring domain.KeyringService,
	dir domain.KeyDirectory,
	messages domain.MessageStore,
	events domain.EventLog,
	transport domain.Transport,
) *Service {
	return &Service{
		keyring:   keyring,
		dir:       dir,
		messages:  messages,
		events:    events,
		transport: transport,
	}
}

// Send encrypts plaintext for to under the pair's session key, signs the
// ciphertext and stores the envelope. If the recipient currently holds a
// push connection the envelope is also delivered immediately; otherwise it
// waits in the store.
//
// Callers supply a unique, monotonically increasing seqNo per conversation
// (a timestamp-derived counter works); key derivation binds the message
// key to it.
func (s *Service) Send(
	ctx context.Context,
	passphrase string,
	to domain.Identity,
	seqNo uint64,
	plaintext []byte,
) (domain.Envelope, error) {
	keys, err := s.keyring.Load(passphrase)
	if err != nil {
		return domain.Envelope{}, err
	}

	sessionKey := crypto.DeriveSessionKey(keys.Identity.String(), to.String())
	cipherBlob, err := crypto.EncryptMessage(sessionKey, seqNo, plaintext)
	if err != nil {
		return domain.Envelope{}, err
	}

	// The signature covers the ciphertext exactly as transported, so the
	// verifier never has to re-encode anything.
	sig, err := crypto.Sign(keys.Signing, []byte(cipherBlob))
	if err != nil {
		return domain.Envelope{}, err
	}

	env := domain.Envelope{
		From:      keys.Identity,
		To:        to,
		SeqNo:     seqNo,
		Cipher:    cipherBlob,
		Signature: sig,
		Timestamp: time.Now().Unix(),
	}
	if err := s.messages.AppendEnvelope(domain.PairID(env.From, env.To), env); err != nil {
		return domain.Envelope{}, err
	}
	s.transport.Push(to, env)
	return env, nil
}

// Open decrypts and verifies one envelope from the receiver's side.
//
// Decryption failure returns ErrDecryptionFailed together with the opened
// message still carrying the original envelope, so callers can keep the
// encrypted content for display or retry. Verification never fails the
// call: a missing signature or an unknown signer yields Unsigned, a
// mismatch yields Invalid. Every verification attempt is recorded in the
// event log.
func (s *Service) Open(env domain.Envelope) (domain.OpenedMessage, error) {
	out := domain.OpenedMessage{Envelope: env, Verification: domain.VerificationUnsigned}

	sessionKey := crypto.DeriveSessionKey(env.From.String(), env.To.String())
	plaintext, err := crypto.DecryptMessage(sessionKey, env.SeqNo, env.Cipher)
	if err != nil {
		return out, err
	}
	out.Plaintext = plaintext

	out.Verification = s.verify(env)
	s.logVerification(env, out.Verification)
	return out, nil
}

// verify resolves the tri-state verification outcome for env.
func (s *Service) verify(env domain.Envelope) domain.VerificationStatus {
	if len(env.Signature) == 0 {
		return domain.VerificationUnsigned
	}
	rec, ok, err := s.dir.PublicKeys(env.From)
	if err != nil || !ok || rec.SigningPEM == "" {
		// Signer unknown: advisory outcome, not an error.
		return domain.VerificationUnsigned
	}
	pub, err := crypto.ImportSigningPublicKey(rec.SigningPEM)
	if err != nil {
		return domain.VerificationUnsigned
	}
	if crypto.Verify(pub, []byte(env.Cipher), env.Signature) {
		return domain.VerificationValid
	}
	return domain.VerificationInvalid
}

func (s *Service) logVerification(env domain.Envelope, status domain.VerificationStatus) {
	_ = s.events.Append(domain.SecurityEvent{
		ID:        uuid.NewString(),
		Type:      domain.EventMessageVerified,
		Subject:   env.From,
		Details:   fmt.Sprintf("seq=%d status=%s", env.SeqNo, status),
		Timestamp: time.Now().Unix(),
	})
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)

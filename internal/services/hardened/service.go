package hardened

import (
	"context"
	"crypto/hmac"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"securechat/internal/archive"
	"securechat/internal/crypto"
	"securechat/internal/domain"
	"securechat/internal/util/memzero"
)

// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
var ErrWeakPassphrase = fmt.Errorf(
	"passphrase is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	crypto.MinPassphraseLength,
)

// Service creates hardened sessions and drives their lifecycle.
//
// All attempt recording for one session is serialised behind a per-session
// lock, so the counter and the triggered lockdown are each applied exactly
// once even under concurrent failed attempts.
type Service struct {
	sessions domain.SessionStore
	messages domain.MessageStore
	events   domain.EventLog
	dir      domain.KeyDirectory
	notifier domain.Notifier
	log      *slog.Logger

	maxAttempts int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs a hardened-session service. maxAttempts <= 0 selects the
// default threshold of three.
func New(
	sessions domain.SessionStore,
	messages domain.MessageStore,
	events domain.EventLog,
	dir domain.KeyDirectory,
	notifier domain.Notifier,
	log *slog.Logger,
	maxAttempts int,
) *Service {
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxAttempts
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		sessions:    sessions,
		messages:    messages,
		events:      events,
		dir:         dir,
		notifier:    notifier,
		log:         log,
		maxAttempts: maxAttempts,
		locks:       make(map[string]*sync.Mutex),
	}
}

// Create builds a new hardened session between a and b gated by passphrase.
//
// The passphrase must pass the strength policy. A fresh random session key
// is wrapped once per participant (RSA-OAEP under their encryption public
// key, then AES-GCM under the passphrase-derived key with a shared salt
// and independent IVs) and the raw key is wiped before returning. The
// stored verifier lets Unlock judge attempts without seeing the key.
func (s *Service) Create(ctx context.Context, a, b domain.Identity, passphrase string) (domain.HardenedSession, error) {
	if report := crypto.CheckPassphrase(passphrase); !report.Acceptable() {
		return domain.HardenedSession{}, ErrWeakPassphrase
	}

	pubA, err := s.encryptionKey(a)
	if err != nil {
		return domain.HardenedSession{}, err
	}
	pubB, err := s.encryptionKey(b)
	if err != nil {
		return domain.HardenedSession{}, err
	}

	sessionKey, err := crypto.RandomSessionKey()
	if err != nil {
		return domain.HardenedSession{}, err
	}
	defer memzero.Zero(sessionKey)

	wrappedA, err := crypto.WrapSessionKeyFor(pubA, sessionKey)
	if err != nil {
		return domain.HardenedSession{}, err
	}
	wrappedB, err := crypto.WrapSessionKeyFor(pubB, sessionKey)
	if err != nil {
		return domain.HardenedSession{}, err
	}

	salt, err := crypto.RandomSalt()
	if err != nil {
		return domain.HardenedSession{}, err
	}
	ctA, ivA, err := crypto.WrapWithPassphrase(wrappedA, passphrase, salt)
	if err != nil {
		return domain.HardenedSession{}, err
	}
	ctB, ivB, err := crypto.WrapWithPassphrase(wrappedB, passphrase, salt)
	if err != nil {
		return domain.HardenedSession{}, err
	}

	sess := domain.HardenedSession{
		ID:           uuid.NewString(),
		ParticipantA: a,
		ParticipantB: b,
		WrappedKeyA:  ctA,
		WrappedKeyB:  ctB,
		IVA:          ivA,
		IVB:          ivB,
		Salt:         salt,
		Verifier:     crypto.HashPassphrase(passphrase, salt),
		MaxAttempts:  s.maxAttempts,
		Status:       domain.SessionActive,
		CreatedAt:    time.Now().Unix(),
	}
	if err := s.sessions.CreateSession(sess); err != nil {
		return domain.HardenedSession{}, err
	}

	s.appendEvent(domain.EventSessionCreated, sess.ID, a, fmt.Sprintf("participants=%s,%s", a, b))
	s.log.Info("hardened session created", "session", sess.ID, "a", a.String(), "b", b.String())
	return sess, nil
}

// Unlock checks passphrase against the stored verifier and records the
// attempt. On a match the result carries the caller's wrapped key copy, IV
// and salt; the caller unwraps client-side with the passphrase and its own RSA
// private key. A locked session always answers locked without
// re-evaluating the passphrase.
func (s *Service) Unlock(ctx context.Context, id string, who domain.Identity, passphrase string) (domain.UnlockResult, error) {
	sess, ok, err := s.sessions.Session(id)
	if err != nil {
		return domain.UnlockResult{}, err
	}
	if !ok {
		return domain.UnlockResult{}, domain.ErrSessionNotFound
	}

	wrapped, iv, isParticipant := sess.WrappedFor(who)
	if !isParticipant {
		return domain.UnlockResult{}, fmt.Errorf("identity %q is not a participant of session %s", who, id)
	}

	match := hmac.Equal(crypto.HashPassphrase(passphrase, sess.Salt), sess.Verifier)

	after, err := s.RecordAttempt(ctx, id, match)
	if err != nil {
		return domain.UnlockResult{Locked: after.Status == domain.SessionLocked, Attempts: after.WrongAttempts}, err
	}

	res := domain.UnlockResult{
		Match:    match,
		Locked:   after.Status == domain.SessionLocked,
		Attempts: after.WrongAttempts,
	}
	if match && !res.Locked {
		res.WrappedKey = wrapped
		res.IV = iv
		res.Salt = sess.Salt
	}
	return res, nil
}

// RecordAttempt applies one unlock attempt to the session counter.
//
// A successful attempt resets the counter and records the access time. A
// failed attempt increments it
// through a conditional store update; reaching the threshold transitions
// the session to Locked exactly once and runs the lockdown procedure
// synchronously before returning. Against a session that is no longer
// Active it records the denial and reports ErrSessionLocked regardless of
// the success argument.
func (s *Service) RecordAttempt(ctx context.Context, id string, success bool) (domain.HardenedSession, error) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, ok, err := s.sessions.Session(id)
	if err != nil {
		return domain.HardenedSession{}, err
	}
	if !ok {
		return domain.HardenedSession{}, domain.ErrSessionNotFound
	}

	if sess.Status != domain.SessionActive {
		s.appendEvent(domain.EventSessionAccessDenied, id, "", "session is not active")
		s.dropSessionLock(id)
		return sess, domain.ErrSessionLocked
	}

	if success {
		now := time.Now().Unix()
		if err := s.sessions.MarkAccessed(id, now); err != nil {
			return domain.HardenedSession{}, err
		}
		sess.WrongAttempts = 0
		sess.LastAccessAt = now
		s.appendEvent(domain.EventSessionAccessed, id, "", "passphrase accepted")
		return sess, nil
	}

	attempts := sess.WrongAttempts + 1
	status := domain.SessionActive
	if attempts >= sess.MaxAttempts {
		status = domain.SessionLocked
	}
	if err := s.sessions.UpdateAttempts(id, sess.WrongAttempts, attempts, status); err != nil {
		return domain.HardenedSession{}, err
	}
	sess.WrongAttempts = attempts
	sess.Status = status
	s.appendEvent(domain.EventSessionAccessDenied, id, "",
		fmt.Sprintf("wrong passphrase, attempt %d of %d", attempts, sess.MaxAttempts))

	if status == domain.SessionLocked {
		// Fire-and-commit: once started, lockdown runs to completion even
		// if the initiating caller goes away.
		s.lockdown(context.WithoutCancel(ctx), &sess)
		s.dropSessionLock(id)
		return sess, domain.ErrSessionLocked
	}
	return sess, nil
}

// Delete is the administrative Active to Deleted transition.
func (s *Service) Delete(ctx context.Context, id string) error {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, ok, err := s.sessions.Session(id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	if sess.Status != domain.SessionActive {
		return domain.ErrSessionLocked
	}
	if err := s.sessions.MarkDeleted(id); err != nil {
		return err
	}
	s.appendEvent(domain.EventSessionDeleted, id, "", "administrative delete")
	s.dropSessionLock(id)
	return nil
}

// Session retrieves a hardened session by id.
func (s *Service) Session(id string) (domain.HardenedSession, bool, error) {
	return s.sessions.Session(id)
}

// Events returns the audit trail, optionally filtered by session id.
func (s *Service) Events(sessionID string) ([]domain.SecurityEvent, error) {
	return s.events.List(sessionID)
}

// lockdown runs the five-step procedure after the threshold transition.
// Steps are strictly sequential, each is logged as a security event, and a
// failing step never stops the ones after it: the destructive wipe is
// unconditional on notification success.
func (s *Service) lockdown(ctx context.Context, sess *domain.HardenedSession) {
	s.log.Warn("lockdown started", "session", sess.ID)

	// Step 1: export the session's messages.
	envelopes, err := s.messages.ExportMessages(sess.ID)
	if err != nil {
		s.appendEvent(domain.EventMessagesExported, sess.ID, "", "export failed: "+err.Error())
	} else {
		s.appendEvent(domain.EventMessagesExported, sess.ID, "", fmt.Sprintf("messages=%d", len(envelopes)))
	}

	// Step 2: package the export. The passphrase never reaches this side,
	// so the archive is plaintext at rest and the event says so.
	var archiveBytes []byte
	meta := domain.ArchiveMetadata{SessionID: sess.ID, Encrypted: false}
	if err == nil {
		var name string
		archiveBytes, name, err = archive.BuildZip(sess.ID, envelopes)
		if err != nil {
			s.appendEvent(domain.EventArchiveCreated, sess.ID, "", "archive failed: "+err.Error())
		} else {
			meta.Filename = name
			s.appendEvent(domain.EventArchiveCreated, sess.ID, "",
				fmt.Sprintf("file=%s bytes=%d encrypted=false", name, len(archiveBytes)))
		}
	}

	// Step 3: notify both participants out-of-band. Failures are logged
	// per participant and never block the wipe.
	for _, participant := range sess.Participants() {
		s.deliverArchive(ctx, sess.ID, participant, archiveBytes, meta)
	}

	// Step 4: irrecoverable wipe.
	count, err := s.messages.DeleteMessages(sess.ID)
	if err != nil {
		s.appendEvent(domain.EventMessagesWiped, sess.ID, "", "wipe failed: "+err.Error())
	} else {
		s.appendEvent(domain.EventMessagesWiped, sess.ID, "", fmt.Sprintf("deleted=%d", count))
	}

	// Step 5: record the lockdown timestamp.
	lockedAt := time.Now().Unix()
	if err := s.sessions.MarkLocked(sess.ID, lockedAt); err != nil {
		s.appendEvent(domain.EventSessionLocked, sess.ID, "", "mark locked failed: "+err.Error())
		return
	}
	sess.LockedAt = lockedAt
	s.appendEvent(domain.EventSessionLocked, sess.ID, "",
		fmt.Sprintf("locked after %d failed attempts", sess.WrongAttempts))
	s.log.Warn("lockdown complete", "session", sess.ID)
}

func (s *Service) deliverArchive(ctx context.Context, sessionID string, to domain.Identity, archiveBytes []byte, meta domain.ArchiveMetadata) {
	if archiveBytes == nil {
		s.appendEvent(domain.EventArchiveDeliveryFailed, sessionID, to, "no archive to deliver")
		return
	}
	rec, ok, err := s.dir.PublicKeys(to)
	if err != nil || !ok || rec.Contact == "" {
		s.appendEvent(domain.EventArchiveDeliveryFailed, sessionID, to, "no contact address on record")
		return
	}
	if err := s.notifier.SendArchive(ctx, rec.Contact, archiveBytes, meta); err != nil {
		s.appendEvent(domain.EventArchiveDeliveryFailed, sessionID, to, err.Error())
		s.log.Warn("archive delivery failed", "session", sessionID, "identity", to.String(), "err", err)
		return
	}
	s.appendEvent(domain.EventArchiveDelivered, sessionID, to, "contact="+rec.Contact)
}

func (s *Service) encryptionKey(id domain.Identity) (pub *rsa.PublicKey, err error) {
	rec, ok, err := s.dir.PublicKeys(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownIdentity, id)
	}
	return crypto.ImportEncryptionPublicKey(rec.EncryptionPEM)
}

// sessionLock returns the mutex serialising attempts for one session.
func (s *Service) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// dropSessionLock forgets the per-session mutex once the session is in a
// terminal state, so the map stays bounded by the number of active
// sessions. A late waiter on the dropped mutex re-reads the stored status
// and is denied there.
func (s *Service) dropSessionLock(id string) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

func (s *Service) appendEvent(t domain.EventType, sessionID string, subject domain.Identity, details string) {
	_ = s.events.Append(domain.SecurityEvent{
		ID:        uuid.NewString(),
		Type:      t,
		SessionID: sessionID,
		Subject:   subject,
		Details:   details,
		Timestamp: time.Now().Unix(),
	})
}

// Compile-time assertion that Service implements domain.HardenedService.
var _ domain.HardenedService = (*Service)(nil)

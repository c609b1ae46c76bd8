package hardened_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"securechat/internal/crypto"
	"securechat/internal/domain"
	"securechat/internal/services/hardened"
	"securechat/internal/services/keyring"
	"securechat/internal/store"
)

const sessionPassphrase = "Sn0wLeopard!2024"

type delivery struct {
	address string
	archive []byte
	meta    domain.ArchiveMetadata
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []delivery
	err  error
}

func (n *fakeNotifier) SendArchive(_ context.Context, address string, archive []byte, meta domain.ArchiveMetadata) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, delivery{address: address, archive: archive, meta: meta})
	return nil
}

type fixture struct {
	svc      *hardened.Service
	sessions *store.SessionFileStore
	messages *store.MessageFileStore
	events   *store.EventFileLog
	notifier *fakeNotifier
	alice    *keyring.Service
	bob      *keyring.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := store.NewKeyDirFileStore(t.TempDir())
	sessions := store.NewSessionFileStore(t.TempDir())
	messages := store.NewMessageFileStore(t.TempDir())
	events := store.NewEventFileLog(t.TempDir())
	notifier := &fakeNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	alice := keyring.New(store.NewKeyringFileStore(t.TempDir()), dir)
	bob := keyring.New(store.NewKeyringFileStore(t.TempDir()), dir)
	_, err := alice.Init(sessionPassphrase, "alice", "alice@example.com")
	require.NoError(t, err)
	_, err = bob.Init(sessionPassphrase, "bob", "bob@example.com")
	require.NoError(t, err)

	return &fixture{
		svc:      hardened.New(sessions, messages, events, dir, notifier, log, 0),
		sessions: sessions,
		messages: messages,
		events:   events,
		notifier: notifier,
		alice:    alice,
		bob:      bob,
	}
}

func (f *fixture) createSession(t *testing.T) domain.HardenedSession {
	t.Helper()
	sess, err := f.svc.Create(context.Background(), "alice", "bob", sessionPassphrase)
	require.NoError(t, err)
	return sess
}

func (f *fixture) eventCount(t *testing.T, sessionID string, typ domain.EventType) int {
	t.Helper()
	events, err := f.events.List(sessionID)
	require.NoError(t, err)
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestCreate_RejectsWeakPassphrase(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "alice", "bob", "weakpass")
	require.ErrorIs(t, err, hardened.ErrWeakPassphrase)
}

func TestCreate_RejectsUnknownParticipant(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "alice", "mallory", sessionPassphrase)
	require.ErrorIs(t, err, domain.ErrUnknownIdentity)
}

func TestCreate_WrapsKeyPerParticipant(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	assert.Equal(t, domain.SessionActive, sess.Status)
	assert.Equal(t, domain.DefaultMaxAttempts, sess.MaxAttempts)
	assert.Zero(t, sess.WrongAttempts)
	assert.NotEmpty(t, sess.WrappedKeyA)
	assert.NotEmpty(t, sess.WrappedKeyB)
	assert.NotEqual(t, sess.WrappedKeyA, sess.WrappedKeyB)
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionCreated))

	// Both participants recover the same session key through their own
	// private keys.
	aliceKeys, err := f.alice.Load(sessionPassphrase)
	require.NoError(t, err)
	bobKeys, err := f.bob.Load(sessionPassphrase)
	require.NoError(t, err)

	keyA, err := crypto.UnwrapSessionKey(sess.WrappedKeyA, sess.IVA, sessionPassphrase, sess.Salt, aliceKeys.Encryption)
	require.NoError(t, err)
	keyB, err := crypto.UnwrapSessionKey(sess.WrappedKeyB, sess.IVB, sessionPassphrase, sess.Salt, bobKeys.Encryption)
	require.NoError(t, err)
	assert.Len(t, keyA, crypto.SessionKeyBytes)
	assert.True(t, bytes.Equal(keyA, keyB))

	// Alice's private key must not open bob's copy.
	_, err = crypto.UnwrapSessionKey(sess.WrappedKeyB, sess.IVB, sessionPassphrase, sess.Salt, aliceKeys.Encryption)
	require.Error(t, err)
}

func TestUnlock_CorrectPassphrase(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	res, err := f.svc.Unlock(context.Background(), sess.ID, "alice", sessionPassphrase)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.False(t, res.Locked)
	assert.Zero(t, res.Attempts)
	assert.Equal(t, sess.WrappedKeyA, res.WrappedKey)
	assert.Equal(t, sess.IVA, res.IV)
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionAccessed))
}

func TestUnlock_NonParticipant(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	_, err := f.svc.Unlock(context.Background(), sess.ID, "mallory", sessionPassphrase)
	require.Error(t, err)

	// A rejected outsider does not consume an attempt.
	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Zero(t, got.WrongAttempts)
}

func TestUnlock_SuccessResetsCounter(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	for i := 0; i < 2; i++ {
		res, err := f.svc.Unlock(context.Background(), sess.ID, "alice", "Wr0ngGuess!"+string(rune('a'+i)))
		require.NoError(t, err)
		assert.False(t, res.Match)
		assert.False(t, res.Locked)
		assert.Equal(t, i+1, res.Attempts)
		assert.Nil(t, res.WrappedKey)
	}

	res, err := f.svc.Unlock(context.Background(), sess.ID, "alice", sessionPassphrase)
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Zero(t, res.Attempts)

	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Zero(t, got.WrongAttempts)
	assert.Equal(t, domain.SessionActive, got.Status)
	assert.NotZero(t, got.LastAccessAt, "successful unlock records the access time")
}

func TestUnlock_ThirdFailureLocksAndRunsLockdown(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, f.messages.AppendEnvelope(sess.ID, domain.Envelope{
			From: "alice", To: "bob", SeqNo: i, Cipher: "blob",
		}))
	}

	for i := 0; i < 2; i++ {
		res, err := f.svc.Unlock(context.Background(), sess.ID, "bob", "Wr0ngGuess!")
		require.NoError(t, err)
		assert.False(t, res.Locked)
	}

	res, err := f.svc.Unlock(context.Background(), sess.ID, "bob", "Wr0ngGuess!")
	require.ErrorIs(t, err, domain.ErrSessionLocked)
	assert.True(t, res.Locked)
	assert.Equal(t, 3, res.Attempts)

	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionLocked, got.Status)
	assert.NotZero(t, got.LockedAt)

	// Messages are irrecoverably wiped.
	left, err := f.messages.ExportMessages(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	// Both participants received the archive at their contact address.
	require.Len(t, f.notifier.sent, 2)
	addresses := []string{f.notifier.sent[0].address, f.notifier.sent[1].address}
	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, addresses)
	assert.NotEmpty(t, f.notifier.sent[0].archive)
	assert.False(t, f.notifier.sent[0].meta.Encrypted)

	// Every lockdown step left its mark in the audit trail.
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventMessagesExported))
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventArchiveCreated))
	assert.Equal(t, 2, f.eventCount(t, sess.ID, domain.EventArchiveDelivered))
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventMessagesWiped))
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionLocked))
	assert.Equal(t, 3, f.eventCount(t, sess.ID, domain.EventSessionAccessDenied))
}

func TestUnlock_LockedSessionStaysLocked(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	for i := 0; i < 3; i++ {
		_, _ = f.svc.Unlock(context.Background(), sess.ID, "alice", "Wr0ngGuess!")
	}

	// Even the correct passphrase is refused after lockdown, and the
	// counter does not move.
	_, err := f.svc.Unlock(context.Background(), sess.ID, "alice", sessionPassphrase)
	require.ErrorIs(t, err, domain.ErrSessionLocked)

	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.WrongAttempts)
	assert.Equal(t, domain.SessionLocked, got.Status)
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionLocked))
}

func TestLockdown_NotifierFailureStillWipes(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = context.DeadlineExceeded
	sess := f.createSession(t)
	require.NoError(t, f.messages.AppendEnvelope(sess.ID, domain.Envelope{From: "alice", To: "bob", SeqNo: 1, Cipher: "blob"}))

	for i := 0; i < 3; i++ {
		_, _ = f.svc.RecordAttempt(context.Background(), sess.ID, false)
	}

	left, err := f.messages.ExportMessages(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, left, "delivery failure must not block the wipe")
	assert.Equal(t, 2, f.eventCount(t, sess.ID, domain.EventArchiveDeliveryFailed))
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventMessagesWiped))
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionLocked))
}

func TestRecordAttempt_ConcurrentFailuresLockOnce(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.RecordAttempt(context.Background(), sess.ID, false)
		}()
	}
	wg.Wait()

	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionLocked, got.Status)
	assert.Equal(t, 3, got.WrongAttempts, "counter never passes the threshold")
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionLocked))
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventMessagesWiped))
}

func TestRecordAttempt_LockedSessionConcurrentDenials(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	for i := 0; i < 3; i++ {
		_, _ = f.svc.RecordAttempt(context.Background(), sess.ID, false)
	}

	errs := make(chan error, 5)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RecordAttempt(context.Background(), sess.ID, false)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.ErrorIs(t, err, domain.ErrSessionLocked)
	}

	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.WrongAttempts)
	assert.Equal(t, domain.SessionLocked, got.Status)
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionLocked))
}

func TestRecordAttempt_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RecordAttempt(context.Background(), "no-such-session", false)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDelete_ActiveToDeleted(t *testing.T) {
	f := newFixture(t)
	sess := f.createSession(t)

	require.NoError(t, f.svc.Delete(context.Background(), sess.ID))

	got, _, err := f.svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionDeleted, got.Status)
	assert.Equal(t, 1, f.eventCount(t, sess.ID, domain.EventSessionDeleted))

	// Deleted is terminal.
	require.ErrorIs(t, f.svc.Delete(context.Background(), sess.ID), domain.ErrSessionLocked)
	_, err = f.svc.Unlock(context.Background(), sess.ID, "alice", sessionPassphrase)
	require.ErrorIs(t, err, domain.ErrSessionLocked)
}

package store_test

import (
	"errors"
	"testing"

	"securechat/internal/domain"
	"securechat/internal/store"
)

func TestSessionStore_UpdateAttempts(t *testing.T) {
	s := store.NewSessionFileStore(t.TempDir())

	sess := domain.HardenedSession{
		ID:          "s1",
		MaxAttempts: 3,
		Status:      domain.SessionActive,
	}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.UpdateAttempts("s1", 0, 1, domain.SessionActive); err != nil {
		t.Fatalf("UpdateAttempts: %v", err)
	}

	// A writer that read the counter before the update above must not win.
	if err := s.UpdateAttempts("s1", 0, 1, domain.SessionActive); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("stale update: got %v, want ErrAttemptConflict", err)
	}

	if err := s.UpdateAttempts("s1", 1, 3, domain.SessionLocked); err != nil {
		t.Fatalf("UpdateAttempts to locked: %v", err)
	}
	got, ok, err := s.Session("s1")
	if err != nil || !ok {
		t.Fatalf("Session: ok=%v err=%v", ok, err)
	}
	if got.WrongAttempts != 3 || got.Status != domain.SessionLocked {
		t.Fatalf("got attempts=%d status=%s, want 3/locked", got.WrongAttempts, got.Status)
	}

	if err := s.UpdateAttempts("missing", 0, 1, domain.SessionActive); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("unknown session: got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_MarkAccessed(t *testing.T) {
	s := store.NewSessionFileStore(t.TempDir())
	if err := s.CreateSession(domain.HardenedSession{ID: "s1", Status: domain.SessionActive, MaxAttempts: 3}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.UpdateAttempts("s1", 0, 2, domain.SessionActive); err != nil {
		t.Fatalf("UpdateAttempts: %v", err)
	}

	if err := s.MarkAccessed("s1", 777); err != nil {
		t.Fatalf("MarkAccessed: %v", err)
	}
	got, _, err := s.Session("s1")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got.WrongAttempts != 0 || got.LastAccessAt != 777 {
		t.Fatalf("got attempts=%d lastAccess=%d, want 0/777", got.WrongAttempts, got.LastAccessAt)
	}
}

func TestSessionStore_MarkTransitions(t *testing.T) {
	s := store.NewSessionFileStore(t.TempDir())
	if err := s.CreateSession(domain.HardenedSession{ID: "s1", Status: domain.SessionActive}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.MarkLocked("s1", 1234); err != nil {
		t.Fatalf("MarkLocked: %v", err)
	}
	got, _, err := s.Session("s1")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got.Status != domain.SessionLocked || got.LockedAt != 1234 {
		t.Fatalf("got status=%s lockedAt=%d, want locked/1234", got.Status, got.LockedAt)
	}

	if err := s.MarkDeleted("missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("MarkDeleted unknown: got %v, want ErrSessionNotFound", err)
	}
}

func TestEventLog_AppendAndFilter(t *testing.T) {
	l := store.NewEventFileLog(t.TempDir())

	events := []domain.SecurityEvent{
		{ID: "e1", Type: domain.EventSessionCreated, SessionID: "s1"},
		{ID: "e2", Type: domain.EventSessionAccessDenied, SessionID: "s1"},
		{ID: "e3", Type: domain.EventSessionCreated, SessionID: "s2"},
	}
	for _, ev := range events {
		if err := l.Append(ev); err != nil {
			t.Fatalf("Append(%s): %v", ev.ID, err)
		}
	}

	all, err := l.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	for i, ev := range all {
		if ev.ID != events[i].ID {
			t.Fatalf("event %d out of append order: got %s, want %s", i, ev.ID, events[i].ID)
		}
	}

	s1, err := l.List("s1")
	if err != nil {
		t.Fatalf("List(s1): %v", err)
	}
	if len(s1) != 2 || s1[0].ID != "e1" || s1[1].ID != "e2" {
		t.Fatalf("filtered list wrong: %+v", s1)
	}
}

func TestEventLog_EmptyJournal(t *testing.T) {
	l := store.NewEventFileLog(t.TempDir())
	got, err := l.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d events from empty journal", len(got))
	}
}

func TestKeyringStore_RoundTrip(t *testing.T) {
	s := store.NewKeyringFileStore(t.TempDir())

	kr := domain.Keyring{
		Identity:      "alice",
		Contact:       "alice@example.com",
		EncryptionKey: []byte{1, 2, 3},
		SigningKey:    []byte{4, 5, 6},
	}
	if err := s.SaveKeyring("Sn0wLeopard!2024", kr); err != nil {
		t.Fatalf("SaveKeyring: %v", err)
	}

	got, err := s.LoadKeyring("Sn0wLeopard!2024")
	if err != nil {
		t.Fatalf("LoadKeyring: %v", err)
	}
	if got.Identity != kr.Identity || got.Contact != kr.Contact {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := s.LoadKeyring("wrong passphrase"); err == nil {
		t.Fatal("wrong passphrase must not decrypt the keyring")
	}
}

func TestKeyringStore_Missing(t *testing.T) {
	s := store.NewKeyringFileStore(t.TempDir())
	if _, err := s.LoadKeyring("any"); !errors.Is(err, store.ErrNoKeyring) {
		t.Fatalf("got %v, want ErrNoKeyring", err)
	}
}

func TestMessageStore_AppendExportDelete(t *testing.T) {
	s := store.NewMessageFileStore(t.TempDir())

	for i := uint64(1); i <= 3; i++ {
		env := domain.Envelope{From: "alice", To: "bob", SeqNo: i, Cipher: "blob"}
		if err := s.AppendEnvelope("alice|bob", env); err != nil {
			t.Fatalf("AppendEnvelope: %v", err)
		}
	}

	got, err := s.ExportMessages("alice|bob")
	if err != nil {
		t.Fatalf("ExportMessages: %v", err)
	}
	if len(got) != 3 || got[0].SeqNo != 1 || got[2].SeqNo != 3 {
		t.Fatalf("export wrong: %+v", got)
	}

	count, err := s.DeleteMessages("alice|bob")
	if err != nil {
		t.Fatalf("DeleteMessages: %v", err)
	}
	if count != 3 {
		t.Fatalf("deleted %d, want 3", count)
	}

	got, err = s.ExportMessages("alice|bob")
	if err != nil {
		t.Fatalf("ExportMessages after delete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("export after delete returned %d envelopes", len(got))
	}

	count, err = s.DeleteMessages("alice|bob")
	if err != nil || count != 0 {
		t.Fatalf("second delete: count=%d err=%v, want 0/nil", count, err)
	}
}

func TestKeyDirStore_SetAndGet(t *testing.T) {
	s := store.NewKeyDirFileStore(t.TempDir())

	if _, ok, err := s.PublicKeys("alice"); err != nil || ok {
		t.Fatalf("empty directory: ok=%v err=%v", ok, err)
	}

	rec := domain.PublicKeyRecord{Identity: "alice", EncryptionPEM: "enc", SigningPEM: "sig", Contact: "a@example.com"}
	if err := s.SetPublicKeys(rec); err != nil {
		t.Fatalf("SetPublicKeys: %v", err)
	}

	got, ok, err := s.PublicKeys("alice")
	if err != nil || !ok {
		t.Fatalf("PublicKeys: ok=%v err=%v", ok, err)
	}
	if got != rec {
		t.Fatalf("got %+v, want %+v", got, rec)
	}
}

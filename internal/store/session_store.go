package store

import (
	"path/filepath"
	"sync"

	"securechat/internal/domain"
)

const sessionsFile = "sessions.json"

// SessionFileStore persists hardened sessions to disk.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// CreateSession writes a new session record.
func (s *SessionFileStore) CreateSession(sess domain.HardenedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionsFile)
	sessions := map[string]domain.HardenedSession{}
	_ = readJSON(path, &sessions)
	sessions[sess.ID] = sess
	return writeJSON(path, sessions, 0o600)
}

// Session retrieves a stored session by id.
func (s *SessionFileStore) Session(id string) (domain.HardenedSession, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.readAll()
	if err != nil {
		return domain.HardenedSession{}, false, err
	}
	sess, ok := sessions[id]
	return sess, ok, nil
}

// UpdateAttempts conditionally updates the attempt counter and status.
// It fails with ErrAttemptConflict when the stored counter no longer
// matches expectAttempts, so concurrent failed attempts cannot bypass the
// lockdown threshold.
func (s *SessionFileStore) UpdateAttempts(id string, expectAttempts, newAttempts int, status domain.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.readAll()
	if err != nil {
		return err
	}
	sess, ok := sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if sess.WrongAttempts != expectAttempts {
		return domain.ErrAttemptConflict
	}
	sess.WrongAttempts = newAttempts
	sess.Status = status
	sessions[id] = sess
	return writeJSON(filepath.Join(s.dir, sessionsFile), sessions, 0o600)
}

// MarkAccessed resets the attempt counter and records the access time
// after a successful unlock.
func (s *SessionFileStore) MarkAccessed(id string, at int64) error {
	return s.update(id, func(sess *domain.HardenedSession) {
		sess.WrongAttempts = 0
		sess.LastAccessAt = at
	})
}

// MarkLocked records the lockdown timestamp on a locked session.
func (s *SessionFileStore) MarkLocked(id string, lockedAt int64) error {
	return s.update(id, func(sess *domain.HardenedSession) {
		sess.Status = domain.SessionLocked
		sess.LockedAt = lockedAt
	})
}

// MarkDeleted moves a session to the terminal Deleted state.
func (s *SessionFileStore) MarkDeleted(id string) error {
	return s.update(id, func(sess *domain.HardenedSession) {
		sess.Status = domain.SessionDeleted
	})
}

func (s *SessionFileStore) update(id string, fn func(*domain.HardenedSession)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.readAll()
	if err != nil {
		return err
	}
	sess, ok := sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	fn(&sess)
	sessions[id] = sess
	return writeJSON(filepath.Join(s.dir, sessionsFile), sessions, 0o600)
}

func (s *SessionFileStore) readAll() (map[string]domain.HardenedSession, error) {
	sessions := map[string]domain.HardenedSession{}
	if err := readJSON(filepath.Join(s.dir, sessionsFile), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)

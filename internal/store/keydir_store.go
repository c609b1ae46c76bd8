package store

import (
	"path/filepath"
	"sync"

	"securechat/internal/domain"
)

const keydirFile = "keydir.json"

// KeyDirFileStore is the public key directory: identity to published
// public-key record.
type KeyDirFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeyDirFileStore returns a KeyDirFileStore rooted at dir.
func NewKeyDirFileStore(dir string) *KeyDirFileStore {
	return &KeyDirFileStore{dir: dir}
}

// PublicKeys retrieves the directory record for id.
func (s *KeyDirFileStore) PublicKeys(id domain.Identity) (domain.PublicKeyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := map[domain.Identity]domain.PublicKeyRecord{}
	if err := readJSON(filepath.Join(s.dir, keydirFile), &records); err != nil {
		return domain.PublicKeyRecord{}, false, err
	}
	rec, ok := records[id]
	return rec, ok, nil
}

// SetPublicKeys publishes or replaces the record for rec.Identity.
func (s *KeyDirFileStore) SetPublicKeys(rec domain.PublicKeyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, keydirFile)
	records := map[domain.Identity]domain.PublicKeyRecord{}
	_ = readJSON(path, &records)
	records[rec.Identity] = rec
	return writeJSON(path, records, 0o600)
}

// Compile-time assertion that KeyDirFileStore implements domain.KeyDirectory.
var _ domain.KeyDirectory = (*KeyDirFileStore)(nil)

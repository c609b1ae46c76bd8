package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"

	"securechat/internal/domain"
)

const keyringFile = "keyring.enc"

// ErrNoKeyring is returned when no keyring has been initialised yet.
var ErrNoKeyring = errors.New("no keyring found; run init first")

// KeyringFileStore persists the local private keys, encrypted at rest with
// the owner's passphrase.
type KeyringFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeyringFileStore returns a KeyringFileStore rooted at dir.
func NewKeyringFileStore(dir string) *KeyringFileStore {
	return &KeyringFileStore{dir: dir}
}

// SaveKeyring seals the keyring with the passphrase and writes it to disk.
func (s *KeyringFileStore) SaveKeyring(passphrase string, kr domain.Keyring) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(kr)
	if err != nil {
		return err
	}
	sealed, err := sealBlob(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, keyringFile), sealed, 0o600)
}

// LoadKeyring decrypts and returns the stored keyring.
func (s *KeyringFileStore) LoadKeyring(passphrase string) (domain.Keyring, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := readFile(filepath.Join(s.dir, keyringFile))
	if err != nil {
		return domain.Keyring{}, err
	}
	if sealed == nil {
		return domain.Keyring{}, ErrNoKeyring
	}
	raw, err := openBlob(passphrase, sealed)
	if err != nil {
		return domain.Keyring{}, err
	}
	var kr domain.Keyring
	if err := json.Unmarshal(raw, &kr); err != nil {
		return domain.Keyring{}, err
	}
	return kr, nil
}

// Compile-time assertion that KeyringFileStore implements domain.KeyringStore.
var _ domain.KeyringStore = (*KeyringFileStore)(nil)

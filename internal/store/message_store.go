package store

import (
	"path/filepath"
	"sync"

	"securechat/internal/domain"
)

const messagesFile = "messages.json"

// MessageFileStore persists message envelopes keyed by conversation or
// hardened-session id.
type MessageFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewMessageFileStore returns a MessageFileStore rooted at dir.
func NewMessageFileStore(dir string) *MessageFileStore {
	return &MessageFileStore{dir: dir}
}

// AppendEnvelope stores one envelope at the end of the conversation.
func (s *MessageFileStore) AppendEnvelope(conversationID string, env domain.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, messagesFile)
	all := map[string][]domain.Envelope{}
	_ = readJSON(path, &all)
	all[conversationID] = append(all[conversationID], env)
	return writeJSON(path, all, 0o600)
}

// ExportMessages returns a read-only copy of the conversation's envelopes.
func (s *MessageFileStore) ExportMessages(conversationID string) ([]domain.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := map[string][]domain.Envelope{}
	if err := readJSON(filepath.Join(s.dir, messagesFile), &all); err != nil {
		return nil, err
	}
	return append([]domain.Envelope(nil), all[conversationID]...), nil
}

// DeleteMessages irrecoverably removes the conversation's envelopes and
// returns how many were deleted.
func (s *MessageFileStore) DeleteMessages(conversationID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, messagesFile)
	all := map[string][]domain.Envelope{}
	if err := readJSON(path, &all); err != nil {
		return 0, err
	}
	count := len(all[conversationID])
	if count == 0 {
		return 0, nil
	}
	delete(all, conversationID)
	if err := writeJSON(path, all, 0o600); err != nil {
		return 0, err
	}
	return count, nil
}

// Compile-time assertion that MessageFileStore implements domain.MessageStore.
var _ domain.MessageStore = (*MessageFileStore)(nil)

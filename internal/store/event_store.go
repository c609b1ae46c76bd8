package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"securechat/internal/domain"
)

const eventsFile = "events.jsonl"

// EventFileLog is the append-only security event journal: one JSON object
// per line. Entries are only ever appended, never rewritten.
type EventFileLog struct {
	dir string
	mu  sync.Mutex
}

// NewEventFileLog returns an EventFileLog rooted at dir.
func NewEventFileLog(dir string) *EventFileLog {
	return &EventFileLog{dir: dir}
}

// Append writes one event at the end of the journal.
func (l *EventFileLog) Append(ev domain.SecurityEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(l.dir, eventsFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// List returns events in append order, optionally filtered by session id.
// An empty sessionID returns everything.
func (l *EventFileLog) List(sessionID string) ([]domain.SecurityEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := readFile(filepath.Join(l.dir, eventsFile))
	if err != nil || raw == nil {
		return nil, err
	}

	var out []domain.SecurityEvent
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var ev domain.SecurityEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, err
		}
		if sessionID != "" && ev.SessionID != sessionID {
			continue
		}
		out = append(out, ev)
	}
	return out, sc.Err()
}

// Compile-time assertion that EventFileLog implements domain.EventLog.
var _ domain.EventLog = (*EventFileLog)(nil)

// Package registry tracks which identities currently hold a live push
// connection. It is an explicit dependency with a register/unregister
// lifecycle, injected where needed instead of living as ambient global
// state.
package registry

import (
	"sync"

	"securechat/internal/domain"
)

// Conn is one live push connection to a client.
type Conn interface {
	Send(env domain.Envelope) error
	Close() error
}

// Registry maps identities to their current connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.Identity]Conn
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{conns: make(map[domain.Identity]Conn)}
}

// Register associates id with conn. A previous connection for the same
// identity is closed and replaced.
func (r *Registry) Register(id domain.Identity, conn Conn) {
	r.mu.Lock()
	old := r.conns[id]
	r.conns[id] = conn
	r.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}

// Unregister removes id's connection if conn is still the current one.
func (r *Registry) Unregister(id domain.Identity, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[id] == conn {
		delete(r.conns, id)
	}
}

// Lookup returns the current connection for id, if any.
func (r *Registry) Lookup(id domain.Identity) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// Online reports how many identities are currently connected.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

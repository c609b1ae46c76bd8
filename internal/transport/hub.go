// Package transport implements the push channel that delivers envelopes
// to currently connected identities over websockets.
package transport

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"securechat/internal/domain"
	"securechat/internal/registry"
)

// Hub pushes envelopes to identities registered in the connection
// registry. Delivery is fire-and-forget: offline identities are skipped
// and the stored copy in the message store remains the source of truth.
type Hub struct {
	reg *registry.Registry
	log *slog.Logger
}

// NewHub returns a Hub backed by reg.
func NewHub(reg *registry.Registry, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{reg: reg, log: log}
}

// Push delivers env to id if a connection is registered. A write failure
// drops the connection; the envelope stays queued in storage.
func (h *Hub) Push(id domain.Identity, env domain.Envelope) {
	conn, ok := h.reg.Lookup(id)
	if !ok {
		return
	}
	if err := conn.Send(env); err != nil {
		h.log.Warn("push failed, dropping connection", "identity", id.String(), "err", err)
		h.reg.Unregister(id, conn)
		_ = conn.Close()
	}
}

// WSConn adapts a websocket connection to the registry.Conn interface.
// Writes are serialised; gorilla connections allow one concurrent writer.
type WSConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// NewWSConn wraps ws.
func NewWSConn(ws *websocket.Conn) *WSConn { return &WSConn{ws: ws} }

// Send writes env as a JSON message.
func (c *WSConn) Send(env domain.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(env)
}

// Close closes the underlying websocket.
func (c *WSConn) Close() error { return c.ws.Close() }

// Compile-time assertions.
var (
	_ domain.Transport = (*Hub)(nil)
	_ registry.Conn    = (*WSConn)(nil)
)

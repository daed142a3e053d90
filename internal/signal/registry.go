package signal

import (
	"time"

	"github.com/google/uuid"

	"github.com/paircall/paircall/internal/domain"
)

// Sender delivers one event to a single connection. Implementations must not
// block: the orchestrator loop calls them inline.
type Sender func(event string, payload any)

type registryEntry struct {
	conn domain.Connection
	send Sender
}

// Registry tracks every live connection. It is owned by the Core loop and is
// a plain map on purpose: all access is serialized through Run.
type Registry struct {
	entries map[string]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

func (r *Registry) Register(connID string, send Sender) *domain.Connection {
	e := &registryEntry{
		conn: domain.Connection{
			ID:          connID,
			Token:       uuid.NewString(),
			ConnectedAt: time.Now(),
		},
		send: send,
	}
	r.entries[connID] = e
	return &e.conn
}

// SetName is a silent no-op for unknown connections.
func (r *Registry) SetName(connID, name string) {
	if e, ok := r.entries[connID]; ok {
		e.conn.Name = name
	}
}

func (r *Registry) SetRoom(connID, code string) {
	if e, ok := r.entries[connID]; ok {
		e.conn.RoomCode = code
	}
}

func (r *Registry) Get(connID string) (domain.Connection, bool) {
	e, ok := r.entries[connID]
	if !ok {
		return domain.Connection{}, false
	}
	return e.conn, true
}

// Remove deletes the entry and hands the removed record back so the caller
// can run room cleanup for it.
func (r *Registry) Remove(connID string) (domain.Connection, bool) {
	e, ok := r.entries[connID]
	if !ok {
		return domain.Connection{}, false
	}
	delete(r.entries, connID)
	return e.conn, true
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) sender(connID string) (Sender, bool) {
	e, ok := r.entries[connID]
	if !ok || e.send == nil {
		return nil, false
	}
	return e.send, true
}

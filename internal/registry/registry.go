// Package registry maps a player identity to its currently live
// transport session, for targeted push delivery.
package registry

import (
	"sync"

	"github.com/relayio/chatrelay/internal/model"
	"github.com/relayio/chatrelay/internal/protocol"
)

// Session is a live transport connection able to receive outbound
// envelopes.
type Session interface {
	Send(response protocol.Response)
}

// Connections tracks the live session per player. Rebinding on
// reconnect is a plain overwrite: the last binding wins. It is never
// the source of truth for whether a player is online; that is the
// player entity's Online flag.
type Connections struct {
	mu       sync.RWMutex
	sessions map[model.PlayerID]Session
}

// New creates an empty connection registry.
func New() *Connections {
	return &Connections{
		sessions: make(map[model.PlayerID]Session),
	}
}

// Bind associates the player with the session, replacing any prior
// binding unconditionally.
func (c *Connections) Bind(id model.PlayerID, session Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[id] = session
}

// Lookup returns the player's live session, if any.
func (c *Connections) Lookup(id model.PlayerID) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	session, ok := c.sessions[id]
	return session, ok
}

// Release drops the binding for the player, but only if it still points
// at the given session. A newer binding from a reconnect is left alone.
func (c *Connections) Release(id model.PlayerID, session Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.sessions[id]; ok && current == session {
		delete(c.sessions, id)
	}
}

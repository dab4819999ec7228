// Package session owns the lifecycle of conversation sessions: creation,
// lookup, reset, and per-session turn serialization.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// Manager holds live sessions in memory. Concurrent turns against different
// sessions proceed independently; turns against the same session serialize.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	turnMu  sync.Mutex
	session *types.ConversationSession
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*entry)}
}

// GetOrCreate returns the session for id, creating it if needed. An empty id
// gets a fresh short identifier.
func (m *Manager) GetOrCreate(id string) *types.ConversationSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()[:8]
	}
	if e, ok := m.sessions[id]; ok {
		return e.session
	}

	e := &entry{session: types.NewSession(id)}
	m.sessions[id] = e
	logging.Session("created session %s", id)
	return e.session
}

// Reset discards all accumulated state for id and starts a fresh session
// under the same identifier.
func (m *Manager) Reset(id string) *types.ConversationSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		e = &entry{}
		m.sessions[id] = e
	}
	e.session = types.NewSession(id)
	logging.Session("reset session %s", id)
	return e.session
}

// WithSession runs fn while holding the session's turn lock. Callers use this
// to guarantee one in-flight turn per session.
func (m *Manager) WithSession(id string, fn func(*types.ConversationSession) error) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{session: types.NewSession(id)}
		m.sessions[id] = e
	}
	m.mu.Unlock()

	e.turnMu.Lock()
	defer e.turnMu.Unlock()

	// Re-read under the map lock: a Reset may have swapped the pointer while
	// this turn waited for the lock.
	m.mu.Lock()
	s := e.session
	m.mu.Unlock()
	return fn(s)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

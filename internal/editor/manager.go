package editor

import "sync"

// Manager hands out one editing session per owner. Sessions live for as
// long as the server does; a cleared draft costs nothing to keep around.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uint]*Session)}
}

// Session returns the editing session for ownerID, creating it on first use.
func (m *Manager) Session(ownerID uint) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[ownerID]
	if !ok {
		s = NewSession()
		m.sessions[ownerID] = s
	}
	return s
}

// With runs fn against the owner's session while holding its lock, so two
// in-flight requests from the same owner cannot interleave mutations.
func (m *Manager) With(ownerID uint, fn func(*Session) error) error {
	s := m.Session(ownerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Drop discards the session for ownerID, draft included. Used on logout.
func (m *Manager) Drop(ownerID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, ownerID)
}

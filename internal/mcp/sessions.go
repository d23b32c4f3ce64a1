package mcp

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"browserdap/internal/errors"
	"browserdap/internal/launcher"
	"browserdap/pkg/types"
)

// Session pairs a bridge session ID with the orchestrator driving it.
type Session struct {
	ID           string
	Orchestrator *launcher.Orchestrator
	Port         int
	CreatedAt    time.Time
}

// Info summarizes the session for tool results.
func (s *Session) Info() types.SessionInfo {
	return types.SessionInfo{
		SessionID: s.ID,
		State:     s.Orchestrator.State(),
		Target:    s.Orchestrator.Target(),
		Port:      s.Port,
		PID:       s.Orchestrator.Pid(),
	}
}

// SessionManager tracks the active bridge sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
}

// NewSessionManager creates a session manager with the given limit.
func NewSessionManager(maxSessions int) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
	}
}

// CreateSession registers a new session for the orchestrator, enforcing
// the session limit.
func (sm *SessionManager) CreateSession(orch *launcher.Orchestrator, port int) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.maxSessions {
		return nil, errors.SessionLimitReached(sm.maxSessions)
	}

	session := &Session{
		ID:           uuid.New().String(),
		Orchestrator: orch,
		Port:         port,
		CreatedAt:    time.Now(),
	}
	sm.sessions[session.ID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, ok := sm.sessions[id]
	if !ok {
		return nil, errors.SessionNotFound(id)
	}
	return session, nil
}

// ListSessions returns all active sessions.
func (sm *SessionManager) ListSessions() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*Session, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// RemoveSession disposes a session and drops it from the registry.
func (sm *SessionManager) RemoveSession(id string) error {
	sm.mu.Lock()
	session, ok := sm.sessions[id]
	if ok {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	if !ok {
		return errors.SessionNotFound(id)
	}
	return session.Orchestrator.Dispose()
}

// Close disposes all sessions.
func (sm *SessionManager) Close() {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()

	for _, session := range sessions {
		_ = session.Orchestrator.Dispose()
	}
}

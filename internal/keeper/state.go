package keeper

import (
	"sync"
	"time"
)

// SessionState remembers when the realm was last started and stopped.
// Each timestamp is overwritten by the next command of the same kind; nothing
// survives a restart.
type SessionState struct {
	mu          sync.RWMutex
	lastStarted time.Time
	lastStopped time.Time
}

// NewSessionState creates an empty SessionState.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// MarkStarted records t as the last start.
func (s *SessionState) MarkStarted(t time.Time) {
	s.mu.Lock()
	s.lastStarted = t
	s.mu.Unlock()
}

// MarkStopped records t as the last stop.
func (s *SessionState) MarkStopped(t time.Time) {
	s.mu.Lock()
	s.lastStopped = t
	s.mu.Unlock()
}

// LastStarted reports the most recent start, if one was recorded.
func (s *SessionState) LastStarted() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStarted, !s.lastStarted.IsZero()
}

func (s *SessionState) LastStopped() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStopped, !s.lastStopped.IsZero()
}

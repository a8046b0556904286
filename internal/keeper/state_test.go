package keeper

import (
	"sync"
	"testing"
	"time"
)

func TestSessionStateStartsUnset(t *testing.T) {
	s := NewSessionState()
	if _, ok := s.LastStarted(); ok {
		t.Error("lastStarted should start unset")
	}
	if _, ok := s.LastStopped(); ok {
		t.Error("lastStopped should start unset")
	}
}

func TestSessionStateLastWriteWins(t *testing.T) {
	s := NewSessionState()
	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	s.MarkStarted(t1)
	s.MarkStarted(t2)
	s.MarkStopped(t1)

	if got, ok := s.LastStarted(); !ok || !got.Equal(t2) {
		t.Errorf("LastStarted() = %v, %v; want %v", got, ok, t2)
	}
	if got, ok := s.LastStopped(); !ok || !got.Equal(t1) {
		t.Errorf("LastStopped() = %v, %v; want %v", got, ok, t1)
	}
}

func TestSessionStateConcurrentWriters(t *testing.T) {
	s := NewSessionState()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.MarkStarted(base.Add(time.Duration(i) * time.Second))
		}(i)
		go func(i int) {
			defer wg.Done()
			s.MarkStopped(base.Add(time.Duration(i) * time.Second))
			s.LastStarted()
		}(i)
	}
	wg.Wait()

	if _, ok := s.LastStarted(); !ok {
		t.Error("expected a start timestamp after concurrent writes")
	}
}

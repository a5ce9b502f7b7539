package room

import (
	"sync"
	"time"
)

type controlKind int

const (
	controlPlayPause controlKind = iota
	controlSeek
)

type suppressKey struct {
	connId string
	kind   controlKind
}

// suppressor tracks per-connection echo suppression deadlines. A
// connection that just had a control event applied to it must not have
// the resulting local re-emit relayed back into the room.
type suppressor struct {
	mu        sync.Mutex
	deadlines map[suppressKey]time.Time
	now       func() time.Time
}

func newSuppressor(now func() time.Time) *suppressor {
	return &suppressor{
		deadlines: make(map[suppressKey]time.Time),
		now:       now,
	}
}

// Mark suppresses the connection for the window starting now. Marking
// an already-suppressed connection restarts its window.
func (s *suppressor) Mark(connId string, kind controlKind, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deadlines[suppressKey{connId: connId, kind: kind}] = s.now().Add(window)
}

// Active reports whether the connection is currently suppressed for the
// control kind. A hit restarts the window; an expired entry is cleared.
func (s *suppressor) Active(connId string, kind controlKind, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := suppressKey{connId: connId, kind: kind}
	deadline, ok := s.deadlines[key]
	if !ok {
		return false
	}

	now := s.now()
	if now.After(deadline) {
		delete(s.deadlines, key)
		return false
	}

	s.deadlines[key] = now.Add(window)
	return true
}

// Forget drops all suppression state for a connection.
func (s *suppressor) Forget(connId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.deadlines, suppressKey{connId: connId, kind: controlPlayPause})
	delete(s.deadlines, suppressKey{connId: connId, kind: controlSeek})
}

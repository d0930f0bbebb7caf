package eventlog

import (
	"context"
	"sync"

	"github.com/worldengine/core/pkg/action"
)

type sessionLog struct {
	mu     sync.Mutex
	events []action.WorldEvent
	seq    int64
}

// MemoryStore is an in-process EventLogStore backend: one ordered
// slice plus one sequence counter per session, guarded by a per-session
// mutex so concurrent appends never race.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionLog
}

// NewMemoryStore builds an empty in-memory EventLogStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionLog)}
}

func (m *MemoryStore) logFor(sessionID string) *sessionLog {
	m.mu.RLock()
	l, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.sessions[sessionID]; ok {
		return l
	}
	l = &sessionLog{}
	m.sessions[sessionID] = l
	return l
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, sessionID string, event action.WorldEvent) (int64, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Sequence = l.seq
	l.events = append(l.events, event)
	return l.seq, nil
}

// GetRecent implements Store.
func (m *MemoryStore) GetRecent(_ context.Context, sessionID string, limit int) ([]action.WorldEvent, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]action.WorldEvent, limit)
	copy(out, l.events[n-limit:])
	return out, nil
}

// GetBySession implements Store.
func (m *MemoryStore) GetBySession(_ context.Context, sessionID string) ([]action.WorldEvent, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]action.WorldEvent, len(l.events))
	copy(out, l.events)
	return out, nil
}

// GetByType implements Store.
func (m *MemoryStore) GetByType(_ context.Context, sessionID, eventType string) ([]action.WorldEvent, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []action.WorldEvent
	for _, e := range l.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetAfterSequence implements Store.
func (m *MemoryStore) GetAfterSequence(_ context.Context, sessionID string, seq int64, limit int) ([]action.WorldEvent, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []action.WorldEvent
	for _, e := range l.events {
		if e.Sequence > seq {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// GetAgentVisible implements Store.
func (m *MemoryStore) GetAgentVisible(_ context.Context, sessionID, agentID string, limit int) ([]action.WorldEvent, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []action.WorldEvent
	for _, e := range l.events {
		if isAgentVisible(e, agentID) {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Prune implements Store.
func (m *MemoryStore) Prune(_ context.Context, sessionID string, keepCount int) (int, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.events)
	if keepCount < 0 || keepCount >= n {
		return 0, nil
	}
	dropped := n - keepCount
	l.events = append([]action.WorldEvent(nil), l.events[dropped:]...)
	return dropped, nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context, sessionID string) (int, error) {
	l := m.logFor(sessionID)
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events), nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

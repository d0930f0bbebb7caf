// Package eventlog implements the EventLogStore contract (spec §4.6):
// a per-session, strictly-ordered, append-only log of WorldEvents with
// a pluggable backend (in-memory or Redis).
package eventlog

import (
	"context"

	"github.com/worldengine/core/pkg/action"
)

// Store is the EventLogStore contract. Every method is safe for
// concurrent use across sessions; within one session, Append must
// serialize so sequence numbers are assigned without gaps or races.
type Store interface {
	// Append assigns the next per-session sequence number to event and
	// stores it, returning the assigned sequence.
	Append(ctx context.Context, sessionID string, event action.WorldEvent) (int64, error)

	// GetRecent returns up to limit of the most recently appended
	// events, ascending by sequence.
	GetRecent(ctx context.Context, sessionID string, limit int) ([]action.WorldEvent, error)

	// GetBySession returns every event for sessionID, ascending by sequence.
	GetBySession(ctx context.Context, sessionID string) ([]action.WorldEvent, error)

	// GetByType returns every event of the given type, ascending by sequence.
	GetByType(ctx context.Context, sessionID, eventType string) ([]action.WorldEvent, error)

	// GetAfterSequence returns up to limit events with sequence > seq,
	// ascending by sequence — used by incremental subscribers.
	GetAfterSequence(ctx context.Context, sessionID string, seq int64, limit int) ([]action.WorldEvent, error)

	// GetAgentVisible returns up to limit events visible to agentID:
	// those with meta["visibility"]=="public", or with agentID present
	// in meta["scope"].
	GetAgentVisible(ctx context.Context, sessionID, agentID string, limit int) ([]action.WorldEvent, error)

	// Prune retains only the most recent keepCount events for
	// sessionID, dropping the rest, and returns the number dropped.
	Prune(ctx context.Context, sessionID string, keepCount int) (int, error)

	// Count returns the number of events stored for sessionID.
	Count(ctx context.Context, sessionID string) (int, error)

	// Clear removes every event stored for sessionID.
	Clear(ctx context.Context, sessionID string) error
}

func isAgentVisible(e action.WorldEvent, agentID string) bool {
	if e.Meta == nil {
		return false
	}
	if v, _ := e.Meta["visibility"].(string); v == action.VisibilityPublic {
		return true
	}
	scope, _ := e.Meta["scope"].([]string)
	for _, id := range scope {
		if id == agentID {
			return true
		}
	}
	if scopeAny, ok := e.Meta["scope"].([]interface{}); ok {
		for _, v := range scopeAny {
			if s, ok := v.(string); ok && s == agentID {
				return true
			}
		}
	}
	return false
}

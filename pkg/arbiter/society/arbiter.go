// Package society implements the Arbiter contract for the Society
// world kind (spec §4.2).
package society

import (
	"sort"

	"github.com/worldengine/core/pkg/action"
	rsociety "github.com/worldengine/core/pkg/rules/society"
	wsociety "github.com/worldengine/core/pkg/worldstate/society"
)

// Arbiter is the Society Arbiter.
type Arbiter struct{}

// New builds a Society Arbiter.
func New() *Arbiter { return &Arbiter{} }

// ResolveConflicts keeps at most one action per agent, preferring any
// non-idle action over idle. Retained actions carry no cross-agent
// ordering — all of them execute within the same tick.
func (ar *Arbiter) ResolveConflicts(actions []action.Action, _ *wsociety.State) []action.Action {
	chosen := make(map[string]action.Action, len(actions))
	for _, a := range actions {
		cur, ok := chosen[a.AgentID]
		if !ok {
			chosen[a.AgentID] = a
			continue
		}
		if cur.ActionType == rsociety.ActionIdle && a.ActionType != rsociety.ActionIdle {
			chosen[a.AgentID] = a
		}
	}

	ids := make([]string, 0, len(chosen))
	for id := range chosen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]action.Action, 0, len(ids))
	for _, id := range ids {
		out = append(out, chosen[id])
	}
	return out
}

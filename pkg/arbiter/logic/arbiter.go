// Package logic implements the Arbiter contract for the Logic world
// kind (spec §4.2).
package logic

import (
	"sort"

	"github.com/worldengine/core/pkg/action"
	rlogic "github.com/worldengine/core/pkg/rules/logic"
	wlogic "github.com/worldengine/core/pkg/worldstate/logic"
)

// Arbiter is the Logic Arbiter.
type Arbiter struct{}

// New builds a Logic Arbiter.
func New() *Arbiter { return &Arbiter{} }

// ResolveConflicts keeps one action per agent (the last one it
// proposed, whatever its type) and orders the result accept > refute >
// everything else, then by confidence descending.
func (ar *Arbiter) ResolveConflicts(actions []action.Action, _ *wlogic.State) []action.Action {
	chosen := make(map[string]action.Action, len(actions))
	for _, a := range actions {
		chosen[a.AgentID] = a
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

	rank := func(t string) int {
		switch t {
		case rlogic.ActionAccept:
			return 0
		case rlogic.ActionRefute:
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].ActionType), rank(out[j].ActionType)
		if ri != rj {
			return ri < rj
		}
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].AgentID < out[j].AgentID
	})
	return out
}

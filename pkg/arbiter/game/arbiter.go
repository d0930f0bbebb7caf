// Package game implements the Arbiter contract for the Game world kind
// (spec §4.2).
package game

import (
	"github.com/worldengine/core/pkg/action"
	wgame "github.com/worldengine/core/pkg/worldstate/game"
)

// Arbiter is the Game Arbiter. Off-turn actions are dropped here; the
// kernel (not this package) is responsible for emitting the
// corresponding action_rejected events, per spec §4.4 step 2.
type Arbiter struct{}

// New builds a Game Arbiter.
func New() *Arbiter { return &Arbiter{} }

// ResolveConflicts retains only actions from the current turn holder,
// keeping the highest-priority one if more than one was proposed.
func (ar *Arbiter) ResolveConflicts(actions []action.Action, s *wgame.State) []action.Action {
	var best *action.Action
	for i := range actions {
		a := &actions[i]
		if a.AgentID != s.Game.CurrentTurnAgentID {
			continue
		}
		if best == nil || a.Priority > best.Priority {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	return []action.Action{*best}
}

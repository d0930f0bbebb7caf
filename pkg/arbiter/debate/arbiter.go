// Package debate implements the Arbiter contract for the Debate world
// kind (spec §4.2).
package debate

import (
	"sort"

	"github.com/worldengine/core/pkg/action"
	rdebate "github.com/worldengine/core/pkg/rules/debate"
	wdebate "github.com/worldengine/core/pkg/worldstate/debate"
)

// Arbiter is the Debate Arbiter.
type Arbiter struct{}

// New builds a Debate Arbiter. It holds no configuration of its own —
// every rule is spec-fixed.
func New() *Arbiter { return &Arbiter{} }

// ResolveConflicts drops pass actions, orders the remainder by
// interrupt-first / priority desc / confidence desc, filters out an
// over-talking agent, then narrows to the single action the
// configured speaking order permits.
func (ar *Arbiter) ResolveConflicts(actions []action.Action, s *wdebate.State) []action.Action {
	candidates := make([]action.Action, 0, len(actions))
	for _, a := range actions {
		if a.ActionType == rdebate.ActionPass {
			continue
		}
		if a.AgentID == s.Debate.LastSpeakerID && s.Debate.ConsecutiveSpeaks >= 2 {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ii := candidates[i].ActionType == rdebate.ActionInterrupt
		jj := candidates[j].ActionType == rdebate.ActionInterrupt
		if ii != jj {
			return ii
		}
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].Confidence > candidates[j].Confidence
	})

	switch s.Debate.SpeakingOrder {
	case wdebate.SpeakingFree:
		return candidates[:1]

	case wdebate.SpeakingRoundRobin:
		n := len(s.Debate.AgentIDs)
		if n > 0 {
			expected := s.Debate.AgentIDs[s.Debate.RoundRobinIndex%n]
			for _, a := range candidates {
				if a.AgentID == expected {
					return []action.Action{a}
				}
			}
		}
		for _, a := range candidates {
			if a.ActionType == rdebate.ActionInterrupt && a.Priority >= 4 && s.Debate.AllowInterrupt {
				return []action.Action{a}
			}
		}
		return nil

	case wdebate.SpeakingModerated:
		best := candidates[0]
		bestCount := s.Debate.SpeakCounts[best.AgentID]
		for _, a := range candidates[1:] {
			c := s.Debate.SpeakCounts[a.AgentID]
			if c < bestCount || (c == bestCount && a.Priority > best.Priority) {
				best, bestCount = a, c
			}
		}
		return []action.Action{best}

	default:
		return candidates[:1]
	}
}

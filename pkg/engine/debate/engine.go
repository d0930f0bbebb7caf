// Package debate wires the generic kernel to the Debate world kind's
// rules, arbiter, and scheduler (spec §4.4).
package debate

import (
	"context"
	"time"

	"github.com/worldengine/core/pkg/action"
	arbdebate "github.com/worldengine/core/pkg/arbiter/debate"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/engine"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	ruldebate "github.com/worldengine/core/pkg/rules/debate"
	schdebate "github.com/worldengine/core/pkg/scheduler/debate"
	wdebate "github.com/worldengine/core/pkg/worldstate/debate"
)

// Engine is the Debate WorldEngine.
type Engine struct {
	*engine.Kernel[wdebate.State, *wdebate.State]
}

// New builds a Debate WorldEngine, constructing its initial state from
// the given flow and participants.
func New(sessionID, worldID, topic string, alignment wdebate.Alignment, flow wdebate.Flow, agentIDs []string, cfg config.DebateConfig, log eventlog.Store, narr *narrator.Narrator) *Engine {
	re := ruldebate.New(cfg)
	ar := arbdebate.New()
	sc := schdebate.New()
	newState := func() *wdebate.State {
		return wdebate.New(worldID, topic, alignment, flow, agentIDs)
	}

	hooks := engine.Hooks[wdebate.State, *wdebate.State]{
		NewState: newState,
		ColdStart: func(ctx context.Context, s *wdebate.State, narr *narrator.Narrator) []action.WorldEvent {
			return coldStart(ctx, s, narr)
		},
		PostApply: func(s *wdebate.State, a action.Action, r action.ActionResult) {
			switch a.ActionType {
			case ruldebate.ActionSpeak, ruldebate.ActionRespond, ruldebate.ActionQuestion, ruldebate.ActionInterrupt:
				if a.AgentID == s.Debate.LastSpeakerID {
					s.Debate.ConsecutiveSpeaks++
				} else {
					s.Debate.ConsecutiveSpeaks = 1
				}
				s.Debate.LastSpeakerID = a.AgentID
				s.Debate.SpeakCounts[a.AgentID]++
				s.Debate.IdleRounds = 0
			}
			if n := len(s.Debate.AgentIDs); n > 0 {
				s.Debate.RoundRobinIndex = (s.Debate.RoundRobinIndex + 1) % n
			}
			s.CurrentPhase.PhaseRound++
		},
		Advance: func(ctx context.Context, s *wdebate.State, narr *narrator.Narrator) []action.WorldEvent {
			if !sc.ShouldAdvancePhase(s) {
				return nil
			}
			var events []action.WorldEvent
			if outgoing, ok := sc.OutgoingPhase(s); ok && outgoing.ForceSummary && narr.Attached() {
				summary := narrator.Summary{
					Topic:  s.Topic,
					Phase:  s.CurrentPhase.PhaseID,
					Format: narrator.FormatProse,
				}
				if content, ok := narr.Generate(ctx, summary); ok {
					events = append(events, action.WorldEvent{
						EventType: "phase_summary",
						Timestamp: time.Now(),
						Source:    "narrator",
						Content:   content,
					})
				}
			}
			if next, ok := sc.GetNextPhase(s); ok {
				events = append(events, action.WorldEvent{
					EventType: "phase_switch",
					Timestamp: time.Now(),
					Meta:      map[string]interface{}{"phaseId": next.PhaseID, "phaseType": next.PhaseType},
				})
			}
			return events
		},
		EndEvent: func(s *wdebate.State, reason string) action.WorldEvent {
			return action.WorldEvent{
				EventType: "debate_end",
				Timestamp: time.Now(),
				Content:   reason,
			}
		},
	}

	return &Engine{Kernel: engine.New[wdebate.State](sessionID, newState(), re, ar, sc, log, narr, hooks)}
}

// GetWorldState returns the live world state as an any, shadowing the
// promoted Kernel method so every kind's Engine satisfies a common
// interface regardless of its concrete state type.
func (e *Engine) GetWorldState() any { return e.Kernel.GetWorldState() }

// coldStart implements spec §4.4's "Cold-start intervention (Debate
// only)": when no action was resolved this step, idleRounds
// increments; past the configured threshold, the kernel calls for a
// moderator rather than waiting indefinitely.
func coldStart(ctx context.Context, s *wdebate.State, narr *narrator.Narrator) []action.WorldEvent {
	s.Debate.IdleRounds++
	if s.Debate.InterventionLevel < 1 {
		return nil
	}
	threshold := s.Debate.ColdThreshold
	if s.Debate.InterventionLevel == 1 {
		threshold *= 2
	}
	if s.Debate.IdleRounds < threshold {
		return nil
	}

	target := eligibleMinSpeakCount(s)
	if target == "" {
		return nil
	}

	if s.Debate.InterventionLevel >= 3 && narr.Attached() {
		summary := narrator.Summary{
			Topic:        s.Topic,
			Phase:        s.CurrentPhase.PhaseID,
			Participants: []string{target},
			Format:       narrator.FormatProse,
		}
		if content, ok := narr.Generate(ctx, summary); ok {
			return []action.WorldEvent{{
				EventType: "moderator_question",
				Timestamp: time.Now(),
				Source:    "moderator",
				Content:   content,
				Meta:      map[string]interface{}{"targetId": target},
			}}
		}
	}

	return []action.WorldEvent{{
		EventType: "moderator_call",
		Timestamp: time.Now(),
		Source:    "moderator",
		Meta:      map[string]interface{}{"targetId": target},
	}}
}

func eligibleMinSpeakCount(s *wdebate.State) string {
	var best string
	bestCount := -1
	for _, id := range s.Debate.AgentIDs {
		c := s.Debate.SpeakCounts[id]
		if bestCount == -1 || c < bestCount {
			best, bestCount = id, c
		}
	}
	return best
}

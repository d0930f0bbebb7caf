// Package debate implements the RuleEngine contract for the Debate
// world kind (spec §4.1).
package debate

import (
	"log/slog"
	"time"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	wdebate "github.com/worldengine/core/pkg/worldstate/debate"
)

// Action types an agent may submit in a Debate session.
const (
	ActionSpeak     = "speak"
	ActionRespond   = "respond"
	ActionQuestion  = "question"
	ActionInterrupt = "interrupt"
	ActionVote      = "vote"
	ActionPass      = "pass"
)

// Engine is the Debate RuleEngine. It holds no mutable state of its
// own — every call operates on the *wdebate.State passed in.
type Engine struct {
	cfg config.DebateConfig
}

// New builds a Debate RuleEngine using the given tunables.
func New(cfg config.DebateConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Validate runs the priority-ordered Debate rule chain. A higher
// priority rule short-circuits the chain on failure.
func (e *Engine) Validate(a action.Action, s *wdebate.State) action.ValidationResult {
	// valid_speaker (pri 100)
	if !contains(s.Debate.AgentIDs, a.AgentID) {
		return action.Invalid("agent is not a registered speaker")
	}

	// consecutive_speaks (pri 10)
	if a.ActionType == ActionSpeak || a.ActionType == ActionRespond {
		if a.AgentID == s.Debate.LastSpeakerID && s.Debate.ConsecutiveSpeaks >= 2 {
			return action.Invalid("agent has spoken twice consecutively")
		}
	}

	// interrupt_allowed (pri 9)
	if a.ActionType == ActionInterrupt {
		if !s.Debate.AllowInterrupt || a.Priority < 3 {
			return action.Invalid("interrupts are not permitted in this phase")
		}
	}

	switch a.ActionType {
	case ActionSpeak, ActionRespond, ActionQuestion, ActionInterrupt, ActionVote, ActionPass:
		return action.Valid()
	default:
		return action.Invalid("unknown debate action type")
	}
}

// Apply emits the event corresponding to the action's type. Bookkeeping
// fields (lastSpeakerId, consecutiveSpeaks, speakCounts,
// roundRobinIndex) are updated by the kernel's post-apply step, not
// here.
func (e *Engine) Apply(a action.Action, s *wdebate.State) action.ActionResult {
	now := time.Now()
	switch a.ActionType {
	case ActionSpeak, ActionRespond, ActionQuestion:
		return action.ActionResult{
			Action:  a,
			Success: true,
			Events: []action.WorldEvent{{
				EventType: "speech",
				Timestamp: now,
				Source:    a.AgentID,
				Content:   paramString(a, "content"),
				Meta:      map[string]interface{}{"actionType": a.ActionType},
			}},
		}
	case ActionInterrupt:
		return action.ActionResult{
			Action:  a,
			Success: true,
			Events: []action.WorldEvent{{
				EventType: "speech",
				Timestamp: now,
				Source:    a.AgentID,
				Content:   paramString(a, "content"),
				Meta:      map[string]interface{}{"isInterrupt": true},
			}},
		}
	case ActionVote:
		return action.ActionResult{
			Action:  a,
			Success: true,
			Events: []action.WorldEvent{{
				EventType: "vote",
				Timestamp: now,
				Source:    a.AgentID,
				Content:   paramString(a, "choice"),
			}},
		}
	case ActionPass:
		return action.ActionResult{Action: a, Success: true}
	default:
		return action.ActionResult{Action: a, Success: false, FailureReason: "unknown debate action type"}
	}
}

// EnforceConstraints records (does not enforce) a per-agent speak-ratio
// warning when a configured MaxSpeakRatio is exceeded, per spec §9(ii).
func (e *Engine) EnforceConstraints(s *wdebate.State) ([]action.WorldStateChange, []action.WorldEvent) {
	if e.cfg.MaxSpeakRatio <= 0 {
		return nil, nil
	}
	total := 0
	for _, c := range s.Debate.SpeakCounts {
		total += c
	}
	if total == 0 {
		return nil, nil
	}
	var changes []action.WorldStateChange
	for id, c := range s.Debate.SpeakCounts {
		ratio := float64(c) / float64(total)
		if ratio > e.cfg.MaxSpeakRatio {
			slog.Warn("agent exceeds configured speak ratio", "agent", id, "ratio", ratio, "limit", e.cfg.MaxSpeakRatio)
			changes = append(changes, action.WorldStateChange{
				ChangeType: action.ChangeUpdate,
				EntityType: "agent",
				EntityID:   id,
				FieldPath:  "speakRatioWarning",
				NewValue:   ratio,
			})
		}
	}
	return changes, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func paramString(a action.Action, key string) string {
	if v, ok := a.Params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

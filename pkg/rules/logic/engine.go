// Package logic implements the RuleEngine contract for the Logic
// (collaborative formal derivation) world kind (spec §4.1).
package logic

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	wlogic "github.com/worldengine/core/pkg/worldstate/logic"
)

// Action types a researcher may submit in a Logic session.
const (
	ActionDerive = "derive"
	ActionRefute = "refute"
	ActionExtend = "extend"
	ActionAccept = "accept"
)

// Engine is the Logic RuleEngine.
type Engine struct {
	cfg config.LogicConfig
}

// New builds a Logic RuleEngine using the given tunables.
func New(cfg config.LogicConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Validate requires the acting agent to be a registered researcher and
// checks each action type's preconditions.
func (e *Engine) Validate(a action.Action, s *wlogic.State) action.ValidationResult {
	if _, ok := s.Researchers[a.AgentID]; !ok {
		return action.Invalid("agent is not a registered researcher")
	}

	switch a.ActionType {
	case ActionDerive:
		return e.validateDerive(a, s)
	case ActionRefute:
		targetID, _ := a.Params["targetId"].(string)
		reason, _ := a.Params["reason"].(string)
		if reason == "" {
			return action.Invalid("refutation requires a reason")
		}
		_, inConclusions := s.Problem.Conclusions[targetID]
		_, inPending := s.Problem.PendingProposals[targetID]
		if !inConclusions && !inPending {
			return action.Invalid("refutation target does not exist")
		}
		return action.Valid()
	case ActionExtend:
		baseID, _ := a.Params["baseId"].(string)
		base, ok := s.Problem.Conclusions[baseID]
		if !ok || base.Status != wlogic.ConclusionAccepted {
			return action.Invalid("extend requires an already-accepted base conclusion")
		}
		return e.validateDerive(a, s)
	case ActionAccept:
		proposalID, _ := a.Params["proposalId"].(string)
		if _, ok := s.Problem.PendingProposals[proposalID]; !ok {
			return action.Invalid("accept target is not a pending proposal")
		}
		return action.Valid()
	default:
		return action.Invalid("unknown logic action type")
	}
}

func (e *Engine) validateDerive(a action.Action, s *wlogic.State) action.ValidationResult {
	conclusion, _ := a.Params["conclusion"].(string)
	if conclusion == "" {
		return action.Invalid("derivation requires a non-empty conclusion")
	}
	premises := premiseList(a)
	for _, p := range premises {
		if _, ok := s.Problem.Hypotheses[p]; ok {
			continue
		}
		if c, ok := s.Problem.Conclusions[p]; ok && c.Status == wlogic.ConclusionAccepted {
			continue
		}
		return action.Invalid("premise " + p + " does not exist")
	}
	rule, _ := a.Params["rule"].(string)
	if rule == "modus_ponens" && len(premises) != e.cfg.ModusPonensPremiseCount {
		return action.Valid("modus_ponens expects " + strconv.Itoa(e.cfg.ModusPonensPremiseCount) + " premises")
	}
	return action.Valid()
}

// Apply creates a pending proposal (derive/extend), resolves a
// refutation, or atomically accepts a pending proposal.
func (e *Engine) Apply(a action.Action, s *wlogic.State) action.ActionResult {
	now := time.Now()
	switch a.ActionType {
	case ActionDerive, ActionExtend:
		return e.applyDerive(a, s, now)
	case ActionRefute:
		return e.applyRefute(a, s, now)
	case ActionAccept:
		return e.applyAccept(a, s, now)
	default:
		return action.ActionResult{Action: a, Success: false, FailureReason: "unknown logic action type"}
	}
}

func (e *Engine) applyDerive(a action.Action, s *wlogic.State, now time.Time) action.ActionResult {
	conclusion, _ := a.Params["conclusion"].(string)
	rule, _ := a.Params["rule"].(string)
	premises := premiseList(a)
	if a.ActionType == ActionExtend {
		if baseID, _ := a.Params["baseId"].(string); baseID != "" {
			premises = []string{baseID}
		}
	}

	id := uuid.NewString()
	s.Problem.PendingProposals[id] = &wlogic.Conclusion{
		ID:         id,
		Statement:  conclusion,
		Rule:       rule,
		Premises:   premises,
		ProposedBy: a.AgentID,
		Status:     wlogic.ConclusionPending,
	}

	return action.ActionResult{
		Action:  a,
		Success: true,
		Effects: []action.WorldStateChange{{ChangeType: action.ChangeCreate, EntityType: "proposal", EntityID: id}},
		Events: []action.WorldEvent{{
			EventType: "proposal",
			Timestamp: now,
			Source:    a.AgentID,
			Content:   conclusion,
			Meta:      map[string]interface{}{"proposalId": id},
		}},
	}
}

func (e *Engine) applyRefute(a action.Action, s *wlogic.State, now time.Time) action.ActionResult {
	targetID, _ := a.Params["targetId"].(string)
	reason, _ := a.Params["reason"].(string)
	refutationType, _ := a.Params["type"].(string)
	if refutationType == "" {
		refutationType = "general"
	}

	refID := uuid.NewString()
	s.Problem.Refutations[refID] = &wlogic.Refutation{
		ID: refID, TargetID: targetID, Reason: reason, Type: refutationType, RefutedByID: a.AgentID,
	}

	events := []action.WorldEvent{{
		EventType: "rejected",
		Timestamp: now,
		Source:    a.AgentID,
		Content:   reason,
		Meta:      map[string]interface{}{"targetId": targetID, "type": refutationType},
	}}
	if refutationType == wlogic.RefutationContradiction {
		events = append(events, action.WorldEvent{
			EventType: "contradiction",
			Timestamp: now,
			Source:    a.AgentID,
			Meta:      map[string]interface{}{"targetId": targetID},
		})
	}

	if pending, ok := s.Problem.PendingProposals[targetID]; ok {
		delete(s.Problem.PendingProposals, targetID)
		if r, ok := s.Researchers[pending.ProposedBy]; ok {
			r.RejectedProposals++
		}
	}
	// A refutation targeting an already-accepted conclusion is recorded
	// but never changes or removes that conclusion (spec §9).

	if r, ok := s.Researchers[a.AgentID]; ok {
		r.SuccessfulRefutations++
	}

	return action.ActionResult{Action: a, Success: true, Events: events}
}

func (e *Engine) applyAccept(a action.Action, s *wlogic.State, now time.Time) action.ActionResult {
	proposalID, _ := a.Params["proposalId"].(string)
	proposal := s.Problem.PendingProposals[proposalID]
	delete(s.Problem.PendingProposals, proposalID)
	proposal.Status = wlogic.ConclusionAccepted
	proposal.Contributions = append(proposal.Contributions, a.AgentID)
	s.Problem.Conclusions[proposalID] = proposal

	if r, ok := s.Researchers[proposal.ProposedBy]; ok {
		r.AcceptedProposals++
	}

	events := []action.WorldEvent{{
		EventType: "accepted",
		Timestamp: now,
		Source:    a.AgentID,
		Content:   proposal.Statement,
		Meta:      map[string]interface{}{"conclusionId": proposalID},
	}}

	for _, goal := range s.Problem.Goals {
		if goal.Status == wlogic.GoalOpen && goal.LaTeX == proposal.Statement {
			goal.Status = wlogic.GoalProved
			events = append(events, action.WorldEvent{
				EventType: "goal_proved",
				Timestamp: now,
				Source:    a.AgentID,
				Meta:      map[string]interface{}{"goalId": goal.ID},
			})
		}
	}

	return action.ActionResult{
		Action:  a,
		Success: true,
		Effects: []action.WorldStateChange{{ChangeType: action.ChangeUpdate, EntityType: "proposal", EntityID: proposalID, FieldPath: "status", NewValue: "accepted"}},
		Events:  events,
	}
}

// EnforceConstraints marks the problem solved once every goal is proved.
func (e *Engine) EnforceConstraints(s *wlogic.State) ([]action.WorldStateChange, []action.WorldEvent) {
	if s.Problem.IsSolved || len(s.Problem.Goals) == 0 {
		return nil, nil
	}
	for _, g := range s.Problem.Goals {
		if g.Status != wlogic.GoalProved {
			return nil, nil
		}
	}
	s.Problem.IsSolved = true
	return []action.WorldStateChange{{ChangeType: action.ChangeUpdate, EntityType: "problem", EntityID: s.Problem.ProblemID, FieldPath: "isSolved", NewValue: true}}, nil
}

func premiseList(a action.Action) []string {
	v, ok := a.Params["premises"]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

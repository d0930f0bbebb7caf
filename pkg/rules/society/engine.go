// Package society implements the RuleEngine contract for the Society
// (tick-driven social simulation) world kind (spec §4.1).
package society

import (
	"math"
	"sort"
	"time"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/rng"
	"github.com/worldengine/core/pkg/worldstate"
	wsociety "github.com/worldengine/core/pkg/worldstate/society"
)

// Action types an agent may submit in a Society session.
const (
	ActionWork     = "work"
	ActionConsume  = "consume"
	ActionTalk     = "talk"
	ActionHelp     = "help"
	ActionConflict = "conflict"
	ActionIdle     = "idle"
)

// Talk sub-types carried in Params["talkType"].
const (
	TalkFriendly = "friendly"
	TalkHostile  = "hostile"
	TalkNeutral  = "neutral"
)

// Engine is the Society RuleEngine.
type Engine struct {
	cfg config.SocietyConfig
	rng rng.Source
}

// New builds a Society RuleEngine using the given tunables and random
// source (work success rolls, shock targeting, escalation rolls).
func New(cfg config.SocietyConfig, source rng.Source) *Engine {
	return &Engine{cfg: cfg, rng: source}
}

// Validate checks target existence/activity and parameter ranges for
// each of the six action types.
func (e *Engine) Validate(a action.Action, s *wsociety.State) action.ValidationResult {
	ag, ok := s.Agents[a.AgentID]
	if !ok || !ag.IsActive {
		return action.Invalid("agent is not active")
	}

	switch a.ActionType {
	case ActionWork:
		if !validIntensity(a) {
			return action.Invalid("work intensity must be 1, 2, or 3")
		}
		return action.Valid()

	case ActionConsume:
		return action.Valid()

	case ActionTalk, ActionHelp, ActionConflict:
		if a.Target == nil {
			return action.Invalid("action requires a target")
		}
		target, ok := s.Agents[a.Target.ID]
		if !ok || !target.IsActive {
			return action.Invalid("target does not exist or is inactive")
		}
		if a.ActionType == ActionConflict && !validIntensity(a) {
			return action.Invalid("conflict intensity must be 1, 2, or 3")
		}
		if a.ActionType == ActionHelp {
			amount, _ := a.Params["amount"].(float64)
			if amount <= 0 || amount > ag.Resources {
				return action.Invalid("insufficient resources for help")
			}
		}
		return action.Valid()

	case ActionIdle:
		return action.Valid()

	default:
		return action.Invalid("unknown society action type")
	}
}

// Apply performs one of the six action semantics described in spec §4.1.
func (e *Engine) Apply(a action.Action, s *wsociety.State) action.ActionResult {
	ag := s.Agents[a.AgentID]
	ag.LastActionTick = s.TimeTick

	switch a.ActionType {
	case ActionWork:
		return e.applyWork(a, s, ag)
	case ActionConsume:
		return e.applyConsume(a, ag)
	case ActionTalk:
		return e.applyTalk(a, s, ag)
	case ActionHelp:
		return e.applyHelp(a, s, ag)
	case ActionConflict:
		return e.applyConflict(a, s, ag)
	case ActionIdle:
		return action.ActionResult{Action: a, Success: true}
	default:
		return action.ActionResult{Action: a, Success: false, FailureReason: "unknown society action type"}
	}
}

func (e *Engine) applyWork(a action.Action, s *wsociety.State, ag *wsociety.AgentState) action.ActionResult {
	intensity := intParam(a, "intensity", 1)
	successProb := worldstate.Clamp(0.7+ag.Mood*0.3, 0, 1)
	success := e.rng.Float64() < successProb

	result := action.ActionResult{Action: a, Success: true}
	if success {
		roleBonus := 1.0
		if ag.Role == wsociety.RoleWorker {
			roleBonus = e.cfg.WorkRoleBonus
		}
		elapsed := s.TimeTick - e.cfg.WorkDiminishingStartTick
		if elapsed < 0 {
			elapsed = 0
		}
		efficiency := math.Max(e.cfg.WorkMinEfficiency, 1-float64(elapsed)*e.cfg.WorkDiminishingRate)
		reward := math.Floor(e.cfg.WorkReward[intensity-1] * roleBonus * efficiency)
		ag.Resources += reward
		result.Effects = append(result.Effects, action.WorldStateChange{
			ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: a.AgentID,
			FieldPath: "resources", NewValue: ag.Resources,
		})
	}
	result.Events = []action.WorldEvent{{
		EventType: "work_performed",
		Timestamp: time.Now(),
		Source:    a.AgentID,
		Meta:      map[string]interface{}{"success": success, "intensity": intensity},
	}}
	return result
}

func (e *Engine) applyConsume(a action.Action, ag *wsociety.AgentState) action.ActionResult {
	cost, _ := a.Params["cost"].(float64)
	if ag.Mood > e.cfg.ConsumeIndulgenceThreshold {
		cost *= e.cfg.ConsumeIndulgenceCostMultiplier
	}
	consumed := math.Min(cost, ag.Resources)
	ag.Resources -= consumed
	fullyPaid := consumed >= cost
	if fullyPaid {
		ag.Mood = worldstate.Clamp(ag.Mood+e.cfg.ConsumeMoodBoost, -1, 1)
	} else {
		ag.Mood = worldstate.Clamp(ag.Mood+e.cfg.ConsumeFailMoodPenalty, -1, 1)
	}
	return action.ActionResult{
		Action:  a,
		Success: true,
		Effects: []action.WorldStateChange{
			{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: a.AgentID, FieldPath: "resources", NewValue: ag.Resources},
			{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: a.AgentID, FieldPath: "mood", NewValue: ag.Mood},
		},
		Events: []action.WorldEvent{{
			EventType: "consume_result",
			Timestamp: time.Now(),
			Source:    a.AgentID,
			Meta:      map[string]interface{}{"consumed": consumed, "fullyPaid": fullyPaid},
		}},
	}
}

func (e *Engine) applyTalk(a action.Action, s *wsociety.State, ag *wsociety.AgentState) action.ActionResult {
	target := s.Agents[a.Target.ID]
	talkType, _ := a.Params["talkType"].(string)

	if talkType == TalkHostile && ag.Relationships[a.Target.ID] < e.cfg.ConflictEscalationThreshold {
		if e.rng.Float64() < e.cfg.ConflictEscalationProbability {
			escalated := e.applyConflictAtIntensity(a, s, ag, target, 1)
			escalated.Events = append([]action.WorldEvent{{
				EventType: "conflict_escalation",
				Timestamp: time.Now(),
				Source:    a.AgentID,
				Meta:      map[string]interface{}{"targetId": a.Target.ID},
			}}, escalated.Events...)
			return escalated
		}
	}

	var relDelta, moodDelta float64
	switch talkType {
	case TalkFriendly:
		relDelta = e.cfg.TalkFriendlyBoost
		if ag.Role == wsociety.RoleLeader {
			relDelta *= e.cfg.LeaderRoleBonus
		}
		moodDelta = relDelta
	case TalkHostile:
		relDelta = e.cfg.TalkHostilePenalty
		moodDelta = e.cfg.TalkHostilePenalty
	default:
		relDelta = e.cfg.TalkNeutralDelta
		moodDelta = e.cfg.TalkNeutralDelta / 2
	}

	adjustRelationship(ag, target, a.Target.ID, a.AgentID, relDelta)
	ag.Mood = worldstate.Clamp(ag.Mood+moodDelta, -1, 1)
	target.Mood = worldstate.Clamp(target.Mood+moodDelta, -1, 1)

	return action.ActionResult{
		Action:  a,
		Success: true,
		Effects: []action.WorldStateChange{{ChangeType: action.ChangeUpdate, EntityType: "relationship", EntityID: a.AgentID + ":" + a.Target.ID, FieldPath: "strength", NewValue: ag.Relationships[a.Target.ID]}},
		Events: []action.WorldEvent{{
			EventType: "talk_result",
			Timestamp: time.Now(),
			Source:    a.AgentID,
			Meta:      map[string]interface{}{"targetId": a.Target.ID, "talkType": talkType},
		}},
	}
}

func (e *Engine) applyHelp(a action.Action, s *wsociety.State, ag *wsociety.AgentState) action.ActionResult {
	target := s.Agents[a.Target.ID]
	amount, _ := a.Params["amount"].(float64)
	ag.Resources -= amount
	target.Resources += amount

	boost := e.cfg.HelpRelationshipBoost
	if ag.Role == wsociety.RoleHelper {
		boost *= e.cfg.HelperRoleBonus
	}
	adjustRelationship(ag, target, a.Target.ID, a.AgentID, boost)
	ag.Mood = worldstate.Clamp(ag.Mood+boost, -1, 1)
	target.Mood = worldstate.Clamp(target.Mood+boost, -1, 1)

	return action.ActionResult{
		Action:  a,
		Success: true,
		Effects: []action.WorldStateChange{
			{ChangeType: action.ChangeTransfer, EntityType: "resources", EntityID: a.AgentID + "->" + a.Target.ID, NewValue: amount},
		},
		Events: []action.WorldEvent{{
			EventType: "help_result",
			Timestamp: time.Now(),
			Source:    a.AgentID,
			Meta:      map[string]interface{}{"targetId": a.Target.ID, "amount": amount},
		}},
	}
}

func (e *Engine) applyConflict(a action.Action, s *wsociety.State, ag *wsociety.AgentState) action.ActionResult {
	target := s.Agents[a.Target.ID]
	intensity := intParam(a, "intensity", 1)
	return e.applyConflictAtIntensity(a, s, ag, target, intensity)
}

func (e *Engine) applyConflictAtIntensity(a action.Action, _ *wsociety.State, ag, target *wsociety.AgentState, intensity int) action.ActionResult {
	loss := math.Min(e.cfg.ConflictResourceLoss[intensity-1], ag.Resources)
	targetLoss := math.Min(e.cfg.ConflictResourceLoss[intensity-1], target.Resources)
	ag.Resources -= loss
	target.Resources -= targetLoss

	penalty := e.cfg.ConflictRelationshipPenalty * float64(intensity)
	adjustRelationship(ag, target, a.Target.ID, a.AgentID, penalty)

	moodDrop := -0.1 * float64(intensity)
	ag.Mood = worldstate.Clamp(ag.Mood+moodDrop, -1, 1)
	target.Mood = worldstate.Clamp(target.Mood+moodDrop, -1, 1)

	return action.ActionResult{
		Action:  a,
		Success: true,
		Effects: []action.WorldStateChange{
			{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: a.AgentID, FieldPath: "resources", NewValue: ag.Resources},
			{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: a.Target.ID, FieldPath: "resources", NewValue: target.Resources},
		},
		Events: []action.WorldEvent{{
			EventType: "conflict_result",
			Timestamp: time.Now(),
			Source:    a.AgentID,
			Meta:      map[string]interface{}{"targetId": a.Target.ID, "intensity": intensity},
		}},
	}
}

// EnforceConstraints applies periodic shocks, per-agent exit tracking,
// and recomputes aggregate statistics.
func (e *Engine) EnforceConstraints(s *wsociety.State) ([]action.WorldStateChange, []action.WorldEvent) {
	var changes []action.WorldStateChange
	var events []action.WorldEvent

	if e.cfg.ShockInterval > 0 && s.TimeTick > 0 && s.TimeTick%e.cfg.ShockInterval == 0 {
		c, ev := e.applyShocks(s)
		changes = append(changes, c...)
		events = append(events, ev...)
	}

	c, ev := e.applyExits(s)
	changes = append(changes, c...)
	events = append(events, ev...)

	e.recomputeStatistics(s)

	return changes, events
}

func (e *Engine) applyShocks(s *wsociety.State) ([]action.WorldStateChange, []action.WorldEvent) {
	active := s.ActiveAgentIDs()
	sort.Strings(active)
	if len(active) == 0 {
		return nil, nil
	}
	n := e.cfg.ShockAgentCount
	if n > len(active) {
		n = len(active)
	}
	picked := pickN(active, n, e.rng)

	var changes []action.WorldStateChange
	var events []action.WorldEvent
	for _, id := range picked {
		ag := s.Agents[id]
		resourceLoss := e.rng.Float64()*(e.cfg.ShockResourceMax-e.cfg.ShockResourceMin) + e.cfg.ShockResourceMin
		moodLoss := e.rng.Float64()*(e.cfg.ShockMoodMax-e.cfg.ShockMoodMin) + e.cfg.ShockMoodMin
		ag.Resources = math.Max(0, ag.Resources-resourceLoss)
		ag.Mood = worldstate.Clamp(ag.Mood-moodLoss, -1, 1)
		changes = append(changes,
			action.WorldStateChange{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: id, FieldPath: "resources", NewValue: ag.Resources},
			action.WorldStateChange{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: id, FieldPath: "mood", NewValue: ag.Mood},
		)
		events = append(events, action.WorldEvent{
			EventType: "shock_event",
			Timestamp: time.Now(),
			Source:    id,
			Meta:      map[string]interface{}{"resourceLoss": resourceLoss, "moodLoss": moodLoss},
		})
	}
	return changes, events
}

func (e *Engine) applyExits(s *wsociety.State) ([]action.WorldStateChange, []action.WorldEvent) {
	var changes []action.WorldStateChange
	var events []action.WorldEvent
	ids := s.ActiveAgentIDs()
	sort.Strings(ids)
	for _, id := range ids {
		ag := s.Agents[id]
		if ag.Resources <= 0 {
			ag.ZeroResourceTicks++
		} else {
			ag.ZeroResourceTicks = 0
		}
		if ag.Mood < e.cfg.LowMoodThreshold {
			ag.LowMoodTicks++
		} else {
			ag.LowMoodTicks = 0
		}

		var reason string
		if ag.ZeroResourceTicks >= e.cfg.ZeroResourceExitThreshold {
			reason = "zero_resources"
		} else if ag.LowMoodTicks >= e.cfg.LowMoodExitThreshold {
			reason = "low_mood"
		}
		if reason != "" {
			ag.IsActive = false
			s.Statistics.TotalExits++
			changes = append(changes, action.WorldStateChange{ChangeType: action.ChangeUpdate, EntityType: "agent", EntityID: id, FieldPath: "isActive", NewValue: false})
			events = append(events, action.WorldEvent{
				EventType: "agent_exit",
				Timestamp: time.Now(),
				Source:    id,
				Meta:      map[string]interface{}{"reason": reason},
			})
		}
	}
	return changes, events
}

func (e *Engine) recomputeStatistics(s *wsociety.State) {
	active := s.ActiveAgentIDs()
	s.Statistics.ActiveAgents = len(active)
	if len(active) == 0 {
		s.Statistics.AverageMood = 0
		s.Statistics.GiniCoeff = 0
		s.StabilityIndex = 0
		return
	}
	sort.Strings(active)
	sumMood := 0.0
	resources := make([]float64, len(active))
	for i, id := range active {
		ag := s.Agents[id]
		sumMood += ag.Mood
		resources[i] = ag.Resources
	}
	s.Statistics.AverageMood = sumMood / float64(len(active))
	s.Statistics.GiniCoeff = giniCoefficient(resources)
	s.StabilityIndex = math.Max(0, (s.Statistics.AverageMood+1)/2*(1-s.Statistics.GiniCoeff))
}

// giniCoefficient computes the Gini coefficient of a non-negative
// resource distribution (0 = perfectly equal, 1 = maximally unequal).
func giniCoefficient(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var sumOfDiffs, sum float64
	for i, v := range sorted {
		sum += v
		sumOfDiffs += float64(2*(i+1)-n-1) * v
	}
	if sum == 0 {
		return 0
	}
	return sumOfDiffs / (float64(n) * sum)
}

func pickN(ids []string, n int, source rng.Source) []string {
	pool := append([]string(nil), ids...)
	picked := make([]string, 0, n)
	for i := 0; i < n && len(pool) > 0; i++ {
		idx := source.IntN(len(pool))
		picked = append(picked, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return picked
}

func adjustRelationship(ag, target *wsociety.AgentState, targetID, agentID string, delta float64) {
	ag.Relationships[targetID] = worldstate.Clamp(ag.Relationships[targetID]+delta, -1, 1)
	target.Relationships[agentID] = worldstate.Clamp(target.Relationships[agentID]+delta, -1, 1)
}

func validIntensity(a action.Action) bool {
	i := intParam(a, "intensity", 0)
	return i >= 1 && i <= 3
}

func intParam(a action.Action, key string, def int) int {
	v, ok := a.Params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

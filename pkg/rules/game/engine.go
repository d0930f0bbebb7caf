// Package game implements the RuleEngine contract for the Game
// (turn-based cards) world kind (spec §4.1).
package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/rng"
	wgame "github.com/worldengine/core/pkg/worldstate/game"
)

// Action types an agent may submit in a Game session.
const (
	ActionPlayCard = "play_card"
	ActionDraw     = "draw"
)

// Card kinds understood by Apply. Any other kind is played as a no-op
// utility card (removed from hand, card_played emitted, no secondary
// effect).
const (
	CardAttack = "attack"
	CardHeal   = "heal"
)

var drawPool = []string{CardAttack, CardHeal, "draw"}

// Engine is the Game RuleEngine.
type Engine struct {
	cfg config.GameConfig
	rng rng.Source
}

// New builds a Game RuleEngine using the given tunables and random
// source (used only by the draw action).
func New(cfg config.GameConfig, source rng.Source) *Engine {
	return &Engine{cfg: cfg, rng: source}
}

// Validate rejects actions from an agent who does not hold the turn or
// is dead, requires the named card to be in hand for play_card, and
// requires a distinct living target for an attack card.
func (e *Engine) Validate(a action.Action, s *wgame.State) action.ValidationResult {
	if a.AgentID != s.Game.CurrentTurnAgentID {
		return action.Invalid("not your turn")
	}
	ag, ok := s.Agents[a.AgentID]
	if !ok || !ag.IsAlive {
		return action.Invalid("agent is dead")
	}

	switch a.ActionType {
	case ActionPlayCard:
		cardID, _ := a.Params["cardId"].(string)
		card, _, found := findCard(ag.Hand, cardID)
		if !found {
			return action.Invalid("card not in hand")
		}
		if card.Kind == CardAttack {
			if a.Target == nil || a.Target.ID == a.AgentID {
				return action.Invalid("attack requires a distinct target")
			}
			target, ok := s.Agents[a.Target.ID]
			if !ok || !target.IsAlive {
				return action.Invalid("attack target is not alive")
			}
		}
		return action.Valid()
	case ActionDraw:
		return action.Valid()
	default:
		return action.Invalid("unknown game action type")
	}
}

// Apply removes the played card from hand and dispatches its effect,
// or draws a fresh card from the pool.
func (e *Engine) Apply(a action.Action, s *wgame.State) action.ActionResult {
	now := time.Now()
	ag := s.Agents[a.AgentID]

	switch a.ActionType {
	case ActionPlayCard:
		cardID, _ := a.Params["cardId"].(string)
		card, idx, _ := findCard(ag.Hand, cardID)
		ag.Hand = append(ag.Hand[:idx], ag.Hand[idx+1:]...)

		result := action.ActionResult{
			Action:  a,
			Success: true,
			Effects: []action.WorldStateChange{{
				ChangeType: action.ChangeDelete,
				EntityType: "card",
				EntityID:   card.ID,
				FieldPath:  "hand",
			}},
			Events: []action.WorldEvent{{
				EventType: "card_played",
				Timestamp: now,
				Source:    a.AgentID,
				Meta:      map[string]interface{}{"cardId": card.ID, "kind": card.Kind},
			}},
		}

		switch card.Kind {
		case CardAttack:
			target := s.Agents[a.Target.ID]
			target.HP -= e.cfg.AttackDamage
			if target.HP < 0 {
				target.HP = 0
			}
			result.Effects = append(result.Effects, action.WorldStateChange{
				ChangeType: action.ChangeUpdate,
				EntityType: "agent",
				EntityID:   a.Target.ID,
				FieldPath:  "hp",
				NewValue:   target.HP,
			})
			result.Events = append(result.Events, action.WorldEvent{
				EventType: "damage_dealt",
				Timestamp: now,
				Source:    a.AgentID,
				Meta:      map[string]interface{}{"targetId": a.Target.ID, "amount": e.cfg.AttackDamage, "remainingHP": target.HP},
			})
			if target.HP <= 0 {
				target.IsAlive = false
				result.Events = append(result.Events, action.WorldEvent{
					EventType: "agent_died",
					Timestamp: now,
					Source:    a.Target.ID,
				})
			}
		case CardHeal:
			ag.HP += e.cfg.HealAmount
			if ag.HP > ag.MaxHP {
				ag.HP = ag.MaxHP
			}
			result.Effects = append(result.Effects, action.WorldStateChange{
				ChangeType: action.ChangeUpdate,
				EntityType: "agent",
				EntityID:   a.AgentID,
				FieldPath:  "hp",
				NewValue:   ag.HP,
			})
		}
		return result

	case ActionDraw:
		kind := drawPool[e.rng.IntN(len(drawPool))]
		card := wgame.Card{ID: uuid.NewString(), Kind: kind}
		ag.Hand = append(ag.Hand, card)
		return action.ActionResult{
			Action:  a,
			Success: true,
			Effects: []action.WorldStateChange{{
				ChangeType: action.ChangeCreate,
				EntityType: "card",
				EntityID:   card.ID,
				FieldPath:  "hand",
				NewValue:   card.Kind,
			}},
			Events: []action.WorldEvent{{
				EventType: "card_drawn",
				Timestamp: now,
				Source:    a.AgentID,
				Meta:      map[string]interface{}{"cardId": card.ID, "kind": card.Kind},
			}},
		}
	default:
		return action.ActionResult{Action: a, Success: false, FailureReason: "unknown game action type"}
	}
}

// EnforceConstraints declares a winner once exactly one agent remains alive.
func (e *Engine) EnforceConstraints(s *wgame.State) ([]action.WorldStateChange, []action.WorldEvent) {
	living := s.LivingAgents()
	if len(living) == 1 && s.Game.GamePhase != wgame.PhaseEnded {
		s.Game.WinnerID = living[0]
		s.Game.GamePhase = wgame.PhaseEnded
		return []action.WorldStateChange{{
			ChangeType: action.ChangeUpdate,
			EntityType: "game",
			EntityID:   s.WorldID,
			FieldPath:  "winnerId",
			NewValue:   living[0],
		}}, nil
	}
	return nil, nil
}

func findCard(hand []wgame.Card, id string) (wgame.Card, int, bool) {
	for i, c := range hand {
		if c.ID == id {
			return c, i, true
		}
	}
	return wgame.Card{}, -1, false
}

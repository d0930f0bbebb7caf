// Package game holds the Game (turn-based cards) world kind's state extension.
package game

import "github.com/worldengine/core/pkg/worldstate"

// GamePhase tracks whether the match is still live.
type GamePhase string

const (
	PhasePlaying GamePhase = "playing"
	PhaseEnded   GamePhase = "ended"
)

// Card is a single card instance in a hand.
type Card struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // e.g. "attack", "heal", "draw"
}

// AgentState is the per-agent extension for the Game world kind.
type AgentState struct {
	HP      int    `json:"hp"`
	MaxHP   int    `json:"maxHp"`
	Hand    []Card `json:"hand"`
	IsAlive bool   `json:"isAlive"`
}

// Sub is the game-specific sub-record described in spec §3.
type Sub struct {
	CurrentTurnAgentID string    `json:"currentTurnAgentId"`
	TurnOrder          []string  `json:"turnOrder"`
	TurnIndex          int       `json:"turnIndex"`
	TotalTurns         int       `json:"totalTurns"`
	MaxTurns           int       `json:"maxTurns"`
	GamePhase          GamePhase `json:"gamePhase"`
	WinnerID           string    `json:"winnerId,omitempty"`
}

// State is the full Game world state.
type State struct {
	worldstate.Base
	Agents map[string]*AgentState `json:"agents"`
	Game   Sub                    `json:"game"`
}

// New builds an initialized Game state for the given turn order.
func New(worldID string, turnOrder []string, maxTurns int, startHP int, startingHands map[string][]Card) *State {
	s := &State{
		Base:   worldstate.NewBase(worldID, worldstate.KindGame),
		Agents: make(map[string]*AgentState),
		Game: Sub{
			TurnOrder: append([]string(nil), turnOrder...),
			MaxTurns:  maxTurns,
			GamePhase: PhasePlaying,
		},
	}
	if len(turnOrder) > 0 {
		s.Game.CurrentTurnAgentID = turnOrder[0]
	}
	s.CurrentPhase = worldstate.Phase{
		PhaseID:        "playing",
		PhaseType:      "playing",
		PhaseMaxRounds: -1,
	}
	for _, id := range turnOrder {
		s.Agents[id] = &AgentState{
			HP:      startHP,
			MaxHP:   startHP,
			Hand:    append([]Card(nil), startingHands[id]...),
			IsAlive: true,
		}
	}
	return s
}

// LivingAgents returns the turn-order agents that are still alive, in order.
func (s *State) LivingAgents() []string {
	var out []string
	for _, id := range s.Game.TurnOrder {
		if a, ok := s.Agents[id]; ok && a.IsAlive {
			out = append(out, id)
		}
	}
	return out
}

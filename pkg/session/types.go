// Package session implements the SessionManager (spec §4.7): session
// lifecycle, mapping a sessionId to its owning engine, config, and
// status, with enforced status transitions.
package session

import (
	"time"

	"github.com/worldengine/core/pkg/worldstate"
	"github.com/worldengine/core/pkg/worldstate/debate"
	"github.com/worldengine/core/pkg/worldstate/game"
	"github.com/worldengine/core/pkg/worldstate/logic"
	"github.com/worldengine/core/pkg/worldstate/society"
)

// Status is the session lifecycle state (spec §3 Lifecycles).
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
	StatusFailed  Status = "failed"
)

// transitions lists every status this one may legally move to.
var transitions = map[Status][]Status{
	StatusPending: {StatusRunning, StatusEnded, StatusFailed},
	StatusRunning: {StatusPaused, StatusEnded, StatusFailed},
	StatusPaused:  {StatusRunning, StatusEnded, StatusFailed},
	StatusEnded:   {},
	StatusFailed:  {},
}

func (s Status) canTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DebateParams carries the Debate-specific initial-state construction
// arguments (spec §3 per-world-kind extensions).
type DebateParams struct {
	Alignment debate.Alignment
	Flow      debate.Flow
}

// GameParams carries the Game-specific initial-state construction arguments.
type GameParams struct {
	TurnOrder     []string
	MaxTurns      int
	StartHP       int
	StartingHands map[string][]game.Card
}

// SocietyParams carries the Society-specific initial-state construction arguments.
type SocietyParams struct {
	Agents         map[string]society.Role
	StartResources float64
	RegenRate      float64
	MaxTicks       int
}

// LogicParams carries the Logic-specific initial-state construction arguments.
type LogicParams struct {
	ProblemID  string
	Hypotheses map[string]logic.Proposition
	Goals      map[string]*logic.Goal
	MaxRounds  int
}

// CreateParams is the validated input to Manager.Create, mirroring the
// POST /sessions request body (spec §6): title, topic, scenario,
// agents, maxRounds?, roundTimeLimit?, llmConfig?, plus the per-kind
// init params the "config (world-kind + init params)" Session field
// (spec §3) bundles.
type CreateParams struct {
	CreatedBy      string
	WorldType      worldstate.WorldKind
	Title          string
	Topic          string
	Scenario       string
	Agents         []string
	MaxRounds      int
	RoundTimeLimit time.Duration
	LLMConfig      map[string]interface{}

	Debate  *DebateParams
	Game    *GameParams
	Society *SocietyParams
	Logic   *LogicParams
}

// Summary is the public, read-only view of a session returned from
// Create/Get/List — never the live mutable record.
type Summary struct {
	SessionID         string               `json:"sessionId"`
	CreatedBy         string               `json:"createdBy"`
	WorldType         worldstate.WorldKind `json:"worldType"`
	Title             string               `json:"title"`
	Status            Status               `json:"status"`
	CurrentRound      int                  `json:"currentRound"`
	CreatedAt         time.Time            `json:"createdAt"`
	StartedAt         *time.Time           `json:"startedAt,omitempty"`
	EndedAt           *time.Time           `json:"endedAt,omitempty"`
	TerminationReason string               `json:"terminationReason,omitempty"`
}

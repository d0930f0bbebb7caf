package api

import (
	"time"

	"github.com/worldengine/core/pkg/worldstate"
	"github.com/worldengine/core/pkg/worldstate/debate"
	"github.com/worldengine/core/pkg/worldstate/game"
	"github.com/worldengine/core/pkg/worldstate/logic"
	"github.com/worldengine/core/pkg/worldstate/society"
)

// createSessionRequest is the body of POST /sessions (spec §6 HTTP
// surface table). WorldType and the matching per-kind params object
// select which engine Create builds; the base fields (title, topic,
// scenario, agents, maxRounds, roundTimeLimit, llmConfig) are named
// directly by the spec.
type createSessionRequest struct {
	WorldType      worldstate.WorldKind   `json:"worldType" validate:"required,oneof=debate game society logic"`
	Title          string                 `json:"title"`
	Topic          string                 `json:"topic"`
	Scenario       string                 `json:"scenario"`
	Agents         []string               `json:"agents" validate:"required,min=1"`
	MaxRounds      int                    `json:"maxRounds,omitempty"`
	RoundTimeLimit string                 `json:"roundTimeLimit,omitempty"`
	LLMConfig      map[string]interface{} `json:"llmConfig,omitempty"`

	Debate  *debateParams  `json:"debate,omitempty"`
	Game    *gameParams    `json:"game,omitempty"`
	Society *societyParams `json:"society,omitempty"`
	Logic   *logicParams   `json:"logic,omitempty"`
}

type debateParams struct {
	Alignment debate.Alignment `json:"alignment"`
	Flow      debate.Flow      `json:"flow"`
}

type gameParams struct {
	TurnOrder     []string               `json:"turnOrder" validate:"required,min=1"`
	MaxTurns      int                    `json:"maxTurns" validate:"required,min=1"`
	StartHP       int                    `json:"startHp" validate:"required,min=1"`
	StartingHands map[string][]game.Card `json:"startingHands,omitempty"`
}

type societyParams struct {
	Agents         map[string]society.Role `json:"agents" validate:"required,min=1"`
	StartResources float64                 `json:"startResources"`
	RegenRate      float64                 `json:"regenRate"`
	MaxTicks       int                     `json:"maxTicks" validate:"required,min=1"`
}

type logicParams struct {
	ProblemID  string                        `json:"problemId"`
	Hypotheses map[string]logic.Proposition  `json:"hypotheses,omitempty"`
	Goals      map[string]*logic.Goal        `json:"goals,omitempty"`
	MaxRounds  int                           `json:"maxRounds" validate:"required,min=1"`
}

// endSessionRequest is the body of POST /sessions/:id/end.
type endSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// parseRoundTimeLimit parses the request's roundTimeLimit string,
// returning 0 (no limit) on an empty or unparseable value rather than
// failing the request. The result is passed on in
// session.CreateParams; no engine, driver, or session summary reads it.
func parseRoundTimeLimit(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// Package game wires the generic kernel to the Game world kind's
// rules, arbiter, and scheduler (spec §4.4).
package game

import (
	"context"
	"time"

	"github.com/worldengine/core/pkg/action"
	arbgame "github.com/worldengine/core/pkg/arbiter/game"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/engine"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/rng"
	rulgame "github.com/worldengine/core/pkg/rules/game"
	schgame "github.com/worldengine/core/pkg/scheduler/game"
	wgame "github.com/worldengine/core/pkg/worldstate/game"
)

// Engine is the Game WorldEngine.
type Engine struct {
	*engine.Kernel[wgame.State, *wgame.State]
}

// New builds a Game WorldEngine, constructing its initial state from
// the turn order and starting hands.
func New(sessionID, worldID string, turnOrder []string, maxTurns, startHP int, startingHands map[string][]wgame.Card, cfg config.GameConfig, source rng.Source, log eventlog.Store, narr *narrator.Narrator) *Engine {
	re := rulgame.New(cfg, source)
	ar := arbgame.New()
	sc := schgame.New()
	newState := func() *wgame.State {
		return wgame.New(worldID, turnOrder, maxTurns, startHP, startingHands)
	}

	hooks := engine.Hooks[wgame.State, *wgame.State]{
		NewState: newState,
		StepStartEvent: func(s *wgame.State) *action.WorldEvent {
			if s.Game.TotalTurns != 0 {
				return nil
			}
			return &action.WorldEvent{
				EventType: "turn_start",
				Timestamp: time.Now(),
				Meta:      map[string]interface{}{"agentId": s.Game.CurrentTurnAgentID},
			}
		},
		EmitArbiterRejectionEvent: true,
		Advance: func(ctx context.Context, s *wgame.State, narr *narrator.Narrator) []action.WorldEvent {
			if s.Game.GamePhase == wgame.PhaseEnded {
				return nil
			}
			ended := action.WorldEvent{
				EventType: "turn_end",
				Timestamp: time.Now(),
				Meta:      map[string]interface{}{"agentId": s.Game.CurrentTurnAgentID},
			}
			sc.AdvanceTurn(s)
			events := []action.WorldEvent{ended}
			if s.Game.GamePhase != wgame.PhaseEnded {
				events = append(events, action.WorldEvent{
					EventType: "turn_start",
					Timestamp: time.Now(),
					Meta:      map[string]interface{}{"agentId": s.Game.CurrentTurnAgentID},
				})
			}
			return events
		},
		EndEvent: func(s *wgame.State, reason string) action.WorldEvent {
			return action.WorldEvent{
				EventType: "game_end",
				Timestamp: time.Now(),
				Content:   reason,
				Meta:      map[string]interface{}{"winnerId": s.Game.WinnerID},
			}
		},
	}

	return &Engine{Kernel: engine.New[wgame.State](sessionID, newState(), re, ar, sc, log, narr, hooks)}
}

// GetWorldState returns the live world state as an any, shadowing the
// promoted Kernel method so every kind's Engine satisfies a common
// interface regardless of its concrete state type.
func (e *Engine) GetWorldState() any { return e.Kernel.GetWorldState() }

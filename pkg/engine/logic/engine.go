// Package logic wires the generic kernel to the Logic world kind's
// rules, arbiter, and scheduler (spec §4.4).
package logic

import (
	"context"
	"time"

	"github.com/worldengine/core/pkg/action"
	arblogic "github.com/worldengine/core/pkg/arbiter/logic"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/engine"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	rullogic "github.com/worldengine/core/pkg/rules/logic"
	schlogic "github.com/worldengine/core/pkg/scheduler/logic"
	wlogic "github.com/worldengine/core/pkg/worldstate/logic"
)

// Engine is the Logic WorldEngine.
type Engine struct {
	*engine.Kernel[wlogic.State, *wlogic.State]
}

// New builds a Logic WorldEngine, constructing its initial state from
// the problem statement, hypotheses, and goals.
func New(sessionID, worldID, problemID, statement string, hypotheses map[string]wlogic.Proposition, goals map[string]*wlogic.Goal, researcherIDs []string, maxRounds int, cfg config.LogicConfig, log eventlog.Store, narr *narrator.Narrator) *Engine {
	re := rullogic.New(cfg)
	ar := arblogic.New()
	sc := schlogic.New()
	newState := func() *wlogic.State {
		return wlogic.New(worldID, problemID, statement, hypotheses, goals, researcherIDs, maxRounds)
	}

	hooks := engine.Hooks[wlogic.State, *wlogic.State]{
		NewState: newState,
		Advance: func(ctx context.Context, s *wlogic.State, narr *narrator.Narrator) []action.WorldEvent {
			sc.AdvanceRound(s)
			return nil
		},
		EndEvent: func(s *wlogic.State, reason string) action.WorldEvent {
			return action.WorldEvent{
				EventType: "problem_end",
				Timestamp: time.Now(),
				Content:   reason,
				Meta:      map[string]interface{}{"solved": s.Problem.IsSolved},
			}
		},
	}

	return &Engine{Kernel: engine.New[wlogic.State](sessionID, newState(), re, ar, sc, log, narr, hooks)}
}

// GetWorldState returns the live world state as an any, shadowing the
// promoted Kernel method so every kind's Engine satisfies a common
// interface regardless of its concrete state type.
func (e *Engine) GetWorldState() any { return e.Kernel.GetWorldState() }

// Package society wires the generic kernel to the Society world kind's
// rules, arbiter, and scheduler (spec §4.4).
package society

import (
	"context"
	"time"

	"github.com/worldengine/core/pkg/action"
	arbsociety "github.com/worldengine/core/pkg/arbiter/society"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/engine"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/rng"
	rulsociety "github.com/worldengine/core/pkg/rules/society"
	schsociety "github.com/worldengine/core/pkg/scheduler/society"
	wsociety "github.com/worldengine/core/pkg/worldstate/society"
)

// Engine is the Society WorldEngine.
type Engine struct {
	*engine.Kernel[wsociety.State, *wsociety.State]
}

// New builds a Society WorldEngine, constructing its initial state from
// the agent roster and starting resources.
func New(sessionID, worldID string, agents map[string]wsociety.Role, startResources, regenRate float64, maxTicks int, cfg config.SocietyConfig, source rng.Source, log eventlog.Store, narr *narrator.Narrator) *Engine {
	re := rulsociety.New(cfg, source)
	ar := arbsociety.New()
	sc := schsociety.New()
	newState := func() *wsociety.State {
		return wsociety.New(worldID, agents, startResources, regenRate, maxTicks)
	}

	hooks := engine.Hooks[wsociety.State, *wsociety.State]{
		NewState: newState,
		StepStartEvent: func(s *wsociety.State) *action.WorldEvent {
			return &action.WorldEvent{
				EventType: "tick_start",
				Timestamp: time.Now(),
				Meta:      map[string]interface{}{"tick": s.TimeTick},
			}
		},
		Advance: func(ctx context.Context, s *wsociety.State, narr *narrator.Narrator) []action.WorldEvent {
			sc.AdvanceTick(s)
			return []action.WorldEvent{
				{
					EventType: "tick_end",
					Timestamp: time.Now(),
					Meta:      map[string]interface{}{"tick": s.TimeTick},
				},
				{
					EventType: "state_delta",
					Timestamp: time.Now(),
					Meta: map[string]interface{}{
						"activeAgents":   s.Statistics.ActiveAgents,
						"averageMood":    s.Statistics.AverageMood,
						"stabilityIndex": s.StabilityIndex,
					},
				},
			}
		},
		EndEvent: func(s *wsociety.State, reason string) action.WorldEvent {
			return action.WorldEvent{
				EventType: "society_end",
				Timestamp: time.Now(),
				Content:   reason,
			}
		},
	}

	return &Engine{Kernel: engine.New[wsociety.State](sessionID, newState(), re, ar, sc, log, narr, hooks)}
}

// GetWorldState returns the live world state as an any, shadowing the
// promoted Kernel method so every kind's Engine satisfies a common
// interface regardless of its concrete state type.
func (e *Engine) GetWorldState() any { return e.Kernel.GetWorldState() }

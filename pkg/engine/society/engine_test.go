package society

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	wsociety "github.com/worldengine/core/pkg/worldstate/society"
)

// fixedSource is a deterministic rng.Source double: Float64 always
// returns the configured value (forcing a work roll to succeed or
// fail on demand) and IntN always returns 0.
type fixedSource struct{ value float64 }

func (f fixedSource) Float64() float64 { return f.value }
func (f fixedSource) IntN(n int) int   { return 0 }

func newTestEngine(agents map[string]wsociety.Role, startResources float64, source fixedSource) *Engine {
	cfg := config.Defaults().Society
	return New("sess-1", "world-1", agents, startResources, 0, 100, cfg, source, eventlog.NewMemoryStore(), narrator.New(nil, 0))
}

// A work roll below the success probability (0.7 + mood*0.3) yields
// the reward formula resources += floor(reward * roleBonus * efficiency).
func TestWorkSuccessAppliesRoleBonusReward(t *testing.T) {
	e := newTestEngine(map[string]wsociety.Role{"alice": wsociety.RoleWorker}, 50, fixedSource{value: 0.1})
	st := e.GetWorldState().(*wsociety.State)
	st.Agents["alice"].Mood = 0.5 // successProb = 0.7 + 0.5*0.3 = 0.85, roll 0.1 succeeds

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "w1", AgentID: "alice", ActionType: ActionWork, Params: map[string]interface{}{"intensity": 2.0}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	st = e.GetWorldState().(*wsociety.State)
	assert.InDelta(t, 65.0, st.Agents["alice"].Resources, 0.001, "50 + floor(10*1.5*1.0) = 65")
}

// A roll at or above the success probability leaves resources untouched.
func TestWorkFailureGrantsNoReward(t *testing.T) {
	e := newTestEngine(map[string]wsociety.Role{"alice": wsociety.RoleWorker}, 50, fixedSource{value: 0.99})
	st := e.GetWorldState().(*wsociety.State)
	st.Agents["alice"].Mood = 0.5

	_, err := e.Step(context.Background(), []action.Action{
		{ActionID: "w1", AgentID: "alice", ActionType: ActionWork, Params: map[string]interface{}{"intensity": 2.0}},
	})
	require.NoError(t, err)

	st = e.GetWorldState().(*wsociety.State)
	assert.Equal(t, 50.0, st.Agents["alice"].Resources)
}

func TestInactiveAgentCannotAct(t *testing.T) {
	e := newTestEngine(map[string]wsociety.Role{"alice": wsociety.RoleWorker}, 50, fixedSource{value: 0.1})
	st := e.GetWorldState().(*wsociety.State)
	st.Agents["alice"].IsActive = false

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "w1", AgentID: "alice", ActionType: ActionWork, Params: map[string]interface{}{"intensity": 1.0}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

func TestEveryStepEmitsTickBookendEvents(t *testing.T) {
	e := newTestEngine(map[string]wsociety.Role{"alice": wsociety.RoleWorker}, 50, fixedSource{value: 0.1})
	log := e.Kernel.Log

	_, err := e.Step(context.Background(), nil)
	require.NoError(t, err)

	events, err := log.GetRecent(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.EventType
	}
	assert.Contains(t, types, "tick_start")
	assert.Contains(t, types, "tick_end")
	assert.Contains(t, types, "state_delta")
}

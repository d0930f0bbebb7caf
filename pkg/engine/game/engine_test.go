package game

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	wgame "github.com/worldengine/core/pkg/worldstate/game"
)

func newTestEngine(t *testing.T, turnOrder []string, startHP int, hands map[string][]wgame.Card) (*Engine, eventlog.Store) {
	t.Helper()
	log := eventlog.NewMemoryStore()
	cfg := config.GameConfig{AttackDamage: 20, HealAmount: 15}
	source := rand.New(rand.NewPCG(1, 2))
	e := New("sess-1", "world-1", turnOrder, 50, startHP, hands, cfg, source, log, narrator.New(nil, 0))
	return e, log
}

// A lethal attack kills its target in the same step that plays the
// card; because the win condition is checked immediately after the
// card resolves (before turn advancement runs), the match ends in that
// same step rather than handing the turn back first.
func TestAttackKillsAndEndsMatch(t *testing.T) {
	hands := map[string][]wgame.Card{
		"B": {{ID: "card-1", Kind: CardAttack}},
	}
	e, log := newTestEngine(t, []string{"B", "A"}, 20, hands)

	st := e.GetWorldState().(*wgame.State)
	st.Agents["B"].HP = 100
	st.Agents["A"].HP = 20

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "atk-1", AgentID: "B", ActionType: ActionPlayCard,
			Params: map[string]interface{}{"cardId": "card-1"},
			Target: &action.Target{ID: "A"},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	st = e.GetWorldState().(*wgame.State)
	assert.Equal(t, 0, st.Agents["A"].HP)
	assert.False(t, st.Agents["A"].IsAlive)
	assert.Equal(t, "B", st.Game.WinnerID)
	assert.Equal(t, wgame.PhaseEnded, st.Game.GamePhase)
	assert.True(t, e.IsTerminated())

	events, err := log.GetRecent(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.EventType
	}
	assert.Contains(t, types, "card_played")
	assert.Contains(t, types, "damage_dealt")
	assert.Contains(t, types, "agent_died")
	assert.Contains(t, types, "game_end")
}

func TestOffTurnActionIsRejected(t *testing.T) {
	hands := map[string][]wgame.Card{}
	e, _ := newTestEngine(t, []string{"B", "A"}, 20, hands)

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "a1", AgentID: "A", ActionType: ActionDraw},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "rejected by arbiter/turn", results[0].FailureReason)
}

// Once terminated, Step is an idempotent no-op.
func TestStepAfterTerminationIsNoop(t *testing.T) {
	hands := map[string][]wgame.Card{
		"B": {{ID: "card-1", Kind: CardAttack}},
	}
	e, _ := newTestEngine(t, []string{"B", "A"}, 1, hands)

	_, err := e.Step(context.Background(), []action.Action{
		{ActionID: "atk-1", AgentID: "B", ActionType: ActionPlayCard,
			Params: map[string]interface{}{"cardId": "card-1"},
			Target: &action.Target{ID: "A"},
		},
	})
	require.NoError(t, err)
	require.True(t, e.IsTerminated())

	results, err := e.Step(context.Background(), []action.Action{{ActionID: "a2", AgentID: "B", ActionType: ActionDraw}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

package logic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	wlogic "github.com/worldengine/core/pkg/worldstate/logic"
)

func newTestEngine() *Engine {
	hypotheses := map[string]wlogic.Proposition{
		"H1": {ID: "H1", Statement: "a>0"},
		"H2": {ID: "H2", Statement: "b>0"},
	}
	goals := map[string]*wlogic.Goal{
		"G1": {ID: "G1", LaTeX: "a+b>0", Status: wlogic.GoalOpen},
	}
	cfg := config.LogicConfig{ModusPonensPremiseCount: 2}
	return New("sess-1", "world-1", "prob-1", "is a+b>0 given a>0 and b>0", hypotheses, goals,
		[]string{"r1", "r2"}, 5, cfg, eventlog.NewMemoryStore(), narrator.New(nil, 0))
}

// A derivation proposed from the two hypotheses, once accepted by a
// second researcher, proves the matching goal and solves the problem
// in the same step the acceptance lands.
func TestDeriveThenAcceptProvesGoal(t *testing.T) {
	e := newTestEngine()

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "d1", AgentID: "r1", ActionType: ActionDerive, Params: map[string]interface{}{
			"conclusion": "a+b>0",
			"premises":   []interface{}{"H1", "H2"},
			"rule":       "conjunction",
		}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	require.Len(t, results[0].Events, 1)
	assert.Equal(t, "proposal", results[0].Events[0].EventType)

	proposalID, _ := results[0].Events[0].Meta["proposalId"].(string)
	require.NotEmpty(t, proposalID)

	st := e.GetWorldState().(*wlogic.State)
	assert.Contains(t, st.Problem.PendingProposals, proposalID)
	assert.False(t, st.Problem.IsSolved)

	results, err = e.Step(context.Background(), []action.Action{
		{ActionID: "a1", AgentID: "r2", ActionType: ActionAccept, Params: map[string]interface{}{"proposalId": proposalID}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)

	var eventTypes []string
	for _, ev := range results[0].Events {
		eventTypes = append(eventTypes, ev.EventType)
	}
	assert.Contains(t, eventTypes, "accepted")
	assert.Contains(t, eventTypes, "goal_proved")

	st = e.GetWorldState().(*wlogic.State)
	assert.True(t, st.Problem.IsSolved)
	assert.Equal(t, wlogic.GoalProved, st.Problem.Goals["G1"].Status)
	assert.True(t, e.IsTerminated())
	assert.NotEmpty(t, e.GetTerminationReason())
}

func TestDeriveRejectsUnknownPremise(t *testing.T) {
	e := newTestEngine()

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "d1", AgentID: "r1", ActionType: ActionDerive, Params: map[string]interface{}{
			"conclusion": "c>0",
			"premises":   []interface{}{"H99"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

func TestRefuteRejectsPendingProposal(t *testing.T) {
	e := newTestEngine()

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "d1", AgentID: "r1", ActionType: ActionDerive, Params: map[string]interface{}{
			"conclusion": "a+b>0",
			"premises":   []interface{}{"H1", "H2"},
		}},
	})
	require.NoError(t, err)
	proposalID, _ := results[0].Events[0].Meta["proposalId"].(string)

	results, err = e.Step(context.Background(), []action.Action{
		{ActionID: "r1-refute", AgentID: "r2", ActionType: ActionRefute, Params: map[string]interface{}{
			"targetId": proposalID,
			"reason":   "premises are insufficient",
		}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)

	st := e.GetWorldState().(*wlogic.State)
	assert.NotContains(t, st.Problem.PendingProposals, proposalID)
	assert.NotContains(t, st.Problem.Conclusions, proposalID)
	assert.Equal(t, 1, st.Researchers["r1"].RejectedProposals)
}

// A refuted proposal must never become a usable premise for a later
// derivation — it was rejected, not accepted.
func TestRefutedProposalCannotBeUsedAsPremise(t *testing.T) {
	e := newTestEngine()

	results, err := e.Step(context.Background(), []action.Action{
		{ActionID: "d1", AgentID: "r1", ActionType: ActionDerive, Params: map[string]interface{}{
			"conclusion": "a+b>0",
			"premises":   []interface{}{"H1", "H2"},
		}},
	})
	require.NoError(t, err)
	proposalID, _ := results[0].Events[0].Meta["proposalId"].(string)

	results, err = e.Step(context.Background(), []action.Action{
		{ActionID: "r1-refute", AgentID: "r2", ActionType: ActionRefute, Params: map[string]interface{}{
			"targetId": proposalID,
			"reason":   "premises are insufficient",
		}},
	})
	require.NoError(t, err)
	require.True(t, results[0].Success)

	results, err = e.Step(context.Background(), []action.Action{
		{ActionID: "d2", AgentID: "r1", ActionType: ActionDerive, Params: map[string]interface{}{
			"conclusion": "c>0",
			"premises":   []interface{}{proposalID},
		}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/services"
	"github.com/worldengine/core/pkg/worldstate"
	"github.com/worldengine/core/pkg/worldstate/debate"
)

func newManager(t *testing.T, driver Driver) *Manager {
	t.Helper()
	return New(&config.Config{}, eventlog.NewMemoryStore(), narrator.New(nil, 0), nil, nil, driver)
}

func validDebateParams() CreateParams {
	return CreateParams{
		CreatedBy: "user-1",
		WorldType: worldstate.KindDebate,
		Topic:     "is go the best language",
		Agents:    []string{"a", "b"},
		Debate: &DebateParams{
			Alignment: debate.Alignment{Type: debate.AlignmentFree},
			Flow: debate.Flow{Phases: []debate.PhaseFlowConfig{
				{PhaseID: "opening", PhaseType: "open", MaxRounds: 5, SpeakingOrder: debate.SpeakingRoundRobin},
			}},
		},
	}
}

func TestCreateRejectsEmptyCreatedBy(t *testing.T) {
	m := newManager(t, nil)
	p := validDebateParams()
	p.CreatedBy = ""

	_, err := m.Create(context.Background(), p)
	assert.Error(t, err)
}

func TestCreateRejectsNoAgents(t *testing.T) {
	m := newManager(t, nil)
	p := validDebateParams()
	p.Agents = nil

	_, err := m.Create(context.Background(), p)
	assert.Error(t, err)
}

func TestCreateRejectsMissingKindParams(t *testing.T) {
	m := newManager(t, nil)
	p := validDebateParams()
	p.Debate = nil

	_, err := m.Create(context.Background(), p)
	assert.Error(t, err)
}

func TestCreateRejectsUnsupportedWorldType(t *testing.T) {
	m := newManager(t, nil)
	p := validDebateParams()
	p.WorldType = "unknown"

	_, err := m.Create(context.Background(), p)
	assert.Error(t, err)
}

func TestCreateSucceedsAndStartsPending(t *testing.T) {
	m := newManager(t, nil)
	summary, err := m.Create(context.Background(), validDebateParams())
	require.NoError(t, err)
	assert.NotEmpty(t, summary.SessionID)
	assert.Equal(t, StatusPending, summary.Status)

	got, err := m.Get(summary.SessionID)
	require.NoError(t, err)
	assert.Equal(t, summary.SessionID, got.SessionID)
}

func TestGetUnknownSessionReturnsNotFound(t *testing.T) {
	m := newManager(t, nil)
	_, err := m.Get("nonexistent")
	assert.Equal(t, services.ErrNotFound, err)
}

func TestLifecycleTransitionsEnforced(t *testing.T) {
	m := newManager(t, nil)
	summary, err := m.Create(context.Background(), validDebateParams())
	require.NoError(t, err)
	id := summary.SessionID

	// Pause before running is invalid.
	assert.Equal(t, services.ErrInvalidState, m.Pause(context.Background(), id))

	require.NoError(t, m.Start(context.Background(), id))
	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	assert.NotNil(t, got.StartedAt)

	// Starting again from running is invalid.
	assert.Equal(t, services.ErrInvalidState, m.Start(context.Background(), id))

	require.NoError(t, m.Pause(context.Background(), id))
	got, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, got.Status)

	require.NoError(t, m.Resume(context.Background(), id))
	got, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)

	require.NoError(t, m.End(context.Background(), id, "operator requested"))
	got, err = m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, got.Status)
	assert.Equal(t, "operator requested", got.TerminationReason)
	assert.NotNil(t, got.EndedAt)
}

func TestEndIsIdempotent(t *testing.T) {
	m := newManager(t, nil)
	summary, err := m.Create(context.Background(), validDebateParams())
	require.NoError(t, err)

	require.NoError(t, m.End(context.Background(), summary.SessionID, "first"))
	require.NoError(t, m.End(context.Background(), summary.SessionID, "second"))

	got, err := m.Get(summary.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.TerminationReason, "a second End must not overwrite the first reason")
}

func TestDeleteRejectsRunningSession(t *testing.T) {
	m := newManager(t, nil)
	summary, err := m.Create(context.Background(), validDebateParams())
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background(), summary.SessionID))

	err = m.Delete(context.Background(), summary.SessionID)
	assert.Equal(t, services.ErrInvalidState, err)
}

func TestDeleteRemovesPendingSession(t *testing.T) {
	m := newManager(t, nil)
	summary, err := m.Create(context.Background(), validDebateParams())
	require.NoError(t, err)

	require.NoError(t, m.Delete(context.Background(), summary.SessionID))

	_, err = m.Get(summary.SessionID)
	assert.Equal(t, services.ErrNotFound, err)
}

func TestListByUserFiltersByCreator(t *testing.T) {
	m := newManager(t, nil)
	p1 := validDebateParams()
	p1.CreatedBy = "user-a"
	p2 := validDebateParams()
	p2.CreatedBy = "user-b"

	_, err := m.Create(context.Background(), p1)
	require.NoError(t, err)
	_, err = m.Create(context.Background(), p2)
	require.NoError(t, err)

	list := m.ListByUser("user-a")
	require.Len(t, list, 1)
	assert.Equal(t, "user-a", list[0].CreatedBy)
}

func TestGetStateAndGetEngineReturnLiveEngine(t *testing.T) {
	m := newManager(t, nil)
	summary, err := m.Create(context.Background(), validDebateParams())
	require.NoError(t, err)

	st, err := m.GetState(summary.SessionID)
	require.NoError(t, err)
	assert.NotNil(t, st)

	eng, err := m.GetEngine(summary.SessionID)
	require.NoError(t, err)
	assert.NotNil(t, eng)
}

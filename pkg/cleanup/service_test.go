package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/session"
	"github.com/worldengine/core/pkg/worldstate"
	"github.com/worldengine/core/pkg/worldstate/debate"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.New(&config.Config{}, eventlog.NewMemoryStore(), narrator.New(nil, 0), nil, nil, nil)
}

func createEndedSession(t *testing.T, mgr *session.Manager) string {
	t.Helper()
	ctx := context.Background()

	s, err := mgr.Create(ctx, session.CreateParams{
		CreatedBy: "user-1",
		WorldType: worldstate.KindDebate,
		Topic:     "cleanup sweep coverage",
		Agents:    []string{"a", "b"},
		Debate: &session.DebateParams{
			Alignment: debate.Alignment{Type: debate.AlignmentFree},
			Flow: debate.Flow{Phases: []debate.PhaseFlowConfig{
				{PhaseID: "opening", PhaseType: "open", MaxRounds: 5, SpeakingOrder: debate.SpeakingRoundRobin},
			}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, mgr.Start(ctx, s.SessionID))
	require.NoError(t, mgr.End(ctx, s.SessionID, "test complete"))
	return s.SessionID
}

func TestPruneEndedSessionsDeletesTerminalSessionsPastMaxAge(t *testing.T) {
	mgr := newTestManager(t)
	sessionID := createEndedSession(t, mgr)

	// A negative maxAge pushes the cutoff into the future, so any
	// already-ended session counts as past retention without sleeping
	// in the test.
	count := mgr.PruneEnded(context.Background(), -time.Hour)
	assert.Equal(t, 1, count)

	_, err := mgr.Get(sessionID)
	assert.Error(t, err)
}

func TestPruneEndedSessionsKeepsRecentlyEndedSessions(t *testing.T) {
	mgr := newTestManager(t)
	sessionID := createEndedSession(t, mgr)

	count := mgr.PruneEnded(context.Background(), 24*time.Hour)
	assert.Equal(t, 0, count)

	_, err := mgr.Get(sessionID)
	assert.NoError(t, err)
}

func TestTrimEventLogsDropsOldestEventsPastKeepCount(t *testing.T) {
	mgr := newTestManager(t)
	sessionID := createEndedSession(t, mgr)

	log := eventlog.NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := log.Append(ctx, sessionID, action.WorldEvent{
			EventID:   "evt",
			EventType: "test",
			Timestamp: time.Now(),
			Source:    "test",
		})
		require.NoError(t, err)
	}

	svc := NewService(config.RetentionConfig{
		SessionRetentionHours: 24,
		EventLogKeepCount:     2,
	}, mgr, log)

	svc.trimEventLogs(ctx)

	count, err := log.Count(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunOnceIsSafeWithNoSessions(t *testing.T) {
	mgr := newTestManager(t)
	svc := NewService(config.RetentionConfig{
		SessionRetentionHours: 24,
		EventLogKeepCount:     10,
	}, mgr, eventlog.NewMemoryStore())

	svc.runOnce(context.Background())
}

func TestIntervalFallsBackToDefaultOnInvalidConfig(t *testing.T) {
	svc := NewService(config.RetentionConfig{CleanupInterval: "not-a-duration"}, nil, nil)
	assert.Equal(t, defaultCleanupInterval, svc.interval())
}

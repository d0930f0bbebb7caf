package tickdriver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/broadcast"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/worldstate"
)

// fakeEngine is a minimal engine.WorldEngine double that steps a fixed
// number of times before terminating, recording what actions it saw.
type fakeEngine struct {
	mu          sync.Mutex
	stepsToRun  int
	stepCount   int
	events      []action.WorldEvent
	seenActions [][]action.Action
}

func (e *fakeEngine) Step(ctx context.Context, actions []action.Action) ([]action.ActionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stepCount++
	e.seenActions = append(e.seenActions, actions)
	e.events = append(e.events, action.WorldEvent{
		EventID:   "evt",
		EventType: "step",
		Sequence:  int64(e.stepCount),
	})
	return nil, nil
}

func (e *fakeEngine) GetWorldState() any { return "state" }

func (e *fakeEngine) IsTerminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepCount >= e.stepsToRun
}

func (e *fakeEngine) GetTerminationReason() string { return "max steps reached" }

func (e *fakeEngine) GetEvents(ctx context.Context, limit int) ([]action.WorldEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]action.WorldEvent, len(e.events))
	copy(out, e.events)
	return out, nil
}

func (e *fakeEngine) RegisterEntity(ent *worldstate.Entity) {}
func (e *fakeEngine) UnregisterEntity(id string)            {}
func (e *fakeEngine) Reset()                                {}

func fastQueueConfig() *config.QueueConfig {
	return &config.QueueConfig{
		SocietyTickInterval:  "1ms",
		ActionCollectTimeout: "1ms",
	}
}

func TestDriverRunsUntilTerminated(t *testing.T) {
	queue := NewActionQueue()
	conns := broadcast.NewConnectionManager(time.Second)
	d := New(queue, conns, fastQueueConfig())

	eng := &fakeEngine{stepsToRun: 3}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.Run(ctx, "sess-1", worldstate.KindLogic, eng, NewPauseGate())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop after the engine terminated")
	}

	eng.mu.Lock()
	defer eng.mu.Unlock()
	assert.Equal(t, 3, eng.stepCount)
}

func TestDriverStopsOnContextCancel(t *testing.T) {
	queue := NewActionQueue()
	conns := broadcast.NewConnectionManager(time.Second)
	d := New(queue, conns, fastQueueConfig())

	eng := &fakeEngine{stepsToRun: 1_000_000}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx, "sess-2", worldstate.KindGame, eng, NewPauseGate())
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop after ctx cancellation")
	}
}

func TestDriverDrainsSubmittedActions(t *testing.T) {
	queue := NewActionQueue()
	conns := broadcast.NewConnectionManager(time.Second)
	d := New(queue, conns, fastQueueConfig())

	eng := &fakeEngine{stepsToRun: 1}
	queue.Submit("sess-3", []action.Action{{ActionID: "a1"}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Run(ctx, "sess-3", worldstate.KindDebate, eng, NewPauseGate())

	require.Len(t, eng.seenActions, 1)
	require.Len(t, eng.seenActions[0], 1)
	assert.Equal(t, "a1", eng.seenActions[0][0].ActionID)
}

func TestDriverIntervalPicksSocietyTickInterval(t *testing.T) {
	d := New(nil, nil, &config.QueueConfig{SocietyTickInterval: "250ms", ActionCollectTimeout: "3s"})
	assert.Equal(t, 250*time.Millisecond, d.interval(worldstate.KindSociety))
	assert.Equal(t, 3*time.Second, d.interval(worldstate.KindDebate))
}

func TestDriverIntervalFallsBackToDefaults(t *testing.T) {
	d := New(nil, nil, nil)
	assert.Equal(t, defaultSocietyTickInterval, d.interval(worldstate.KindSociety))
	assert.Equal(t, defaultActionCollectTimeout, d.interval(worldstate.KindGame))
}

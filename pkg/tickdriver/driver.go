// Package tickdriver implements the TickDriver (spec §4.8): one
// goroutine per running session that paces steps — a fixed interval for
// Society, an action-collection window for the turn/round-based kinds —
// drains submitted actions, steps the engine, and pushes the results
// through the Broadcast boundary.
package tickdriver

import (
	"context"
	"log/slog"
	"time"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/broadcast"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/engine"
	"github.com/worldengine/core/pkg/worldstate"
)

const (
	defaultSocietyTickInterval  = 500 * time.Millisecond
	defaultActionCollectTimeout = 3 * time.Second
)

// Driver runs every session's tick loop, grounded on the queue worker's
// poll/sleep idiom but driving a single session's engine instead of
// claiming work from a shared queue.
type Driver struct {
	queue *ActionQueue
	conns *broadcast.ConnectionManager
	cfg   *config.QueueConfig
}

// New builds a Driver. cfg may be nil, in which case every world kind
// uses its built-in default pacing.
func New(queue *ActionQueue, conns *broadcast.ConnectionManager, cfg *config.QueueConfig) *Driver {
	return &Driver{queue: queue, conns: conns, cfg: cfg}
}

// Run implements session.Driver. It blocks until ctx is cancelled (by
// Manager.End) or the engine terminates on its own, whichever is first.
func (d *Driver) Run(ctx context.Context, sessionID string, worldType worldstate.WorldKind, eng engine.WorldEngine, gate *PauseGate) {
	log := slog.With("sessionId", sessionID, "worldType", worldType)
	log.Info("tick driver started")
	defer log.Info("tick driver stopped")
	defer d.queue.Close(sessionID)

	interval := d.interval(worldType)
	var lastSeq int64

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		gate.wait(ctx.Done())

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		actions := d.queue.Drain(sessionID)
		results, err := eng.Step(ctx, actions)
		if err != nil {
			log.Error("step failed", "error", err)
			continue
		}
		_ = results

		lastSeq = d.publishNewEvents(ctx, sessionID, eng, lastSeq, log)
		d.conns.Publish(broadcast.Message{
			Type:      broadcast.MessageStateUpdate,
			SessionID: sessionID,
			Payload:   eng.GetWorldState(),
		})

		if eng.IsTerminated() {
			d.conns.Publish(broadcast.Message{
				Type:      broadcast.MessageSimulationEnded,
				SessionID: sessionID,
				Payload: map[string]string{
					"reason": eng.GetTerminationReason(),
				},
			})
			return
		}
	}
}

// publishNewEvents pushes every event appended since lastSeq and returns
// the new high-water mark.
func (d *Driver) publishNewEvents(ctx context.Context, sessionID string, eng engine.WorldEngine, lastSeq int64, log *slog.Logger) int64 {
	events, err := eng.GetEvents(ctx, 0)
	if err != nil {
		log.Error("fetch events for broadcast", "error", err)
		return lastSeq
	}
	for _, ev := range events {
		if ev.Sequence <= lastSeq {
			continue
		}
		d.conns.Publish(broadcast.Message{
			Type:      broadcast.MessageWorldEvent,
			SessionID: sessionID,
			Payload:   ev,
		})
		lastSeq = ev.Sequence
	}
	return lastSeq
}

// interval picks the step pacing for worldType: Society ticks on a fixed
// clock (spec §4.1 Society "tick" cadence); the turn/round-based kinds
// instead wait out the action-collection window so clients have time to
// submit before the next step runs.
func (d *Driver) interval(worldType worldstate.WorldKind) time.Duration {
	if worldType == worldstate.KindSociety {
		if d.cfg != nil {
			if iv, err := time.ParseDuration(d.cfg.SocietyTickInterval); err == nil && iv > 0 {
				return iv
			}
		}
		return defaultSocietyTickInterval
	}
	if d.cfg != nil {
		if iv, err := time.ParseDuration(d.cfg.ActionCollectTimeout); err == nil && iv > 0 {
			return iv
		}
	}
	return defaultActionCollectTimeout
}

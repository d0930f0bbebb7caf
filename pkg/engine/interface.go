package engine

import (
	"context"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/worldstate"
)

// WorldEngine is the spec §6 "Engine contract" expressed as a Go
// interface: every per-kind Engine (debate/game/society/logic)
// satisfies this through its embedded *Kernel[S, *S] plus its own
// GetWorldState() any override. SessionManager holds sessions through
// this interface so it never needs a world-kind type switch.
type WorldEngine interface {
	// Step executes one deterministic pass of the step algorithm.
	Step(ctx context.Context, actions []action.Action) ([]action.ActionResult, error)

	// GetWorldState returns the live world state as an opaque snapshot.
	GetWorldState() any

	// IsTerminated reports whether the world has ended.
	IsTerminated() bool

	// GetTerminationReason returns why the world ended, or "" if it hasn't.
	GetTerminationReason() string

	// GetEvents returns up to limit of the most recent events.
	GetEvents(ctx context.Context, limit int) ([]action.WorldEvent, error)

	// RegisterEntity adds or replaces an entity in the world.
	RegisterEntity(e *worldstate.Entity)

	// UnregisterEntity removes an entity from the world.
	UnregisterEntity(id string)

	// Reset rebuilds the world from scratch, discarding accumulated state.
	Reset()
}

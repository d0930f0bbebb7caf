// Package engine implements the WorldEngine kernel step algorithm
// (spec §4.4) once, generically over a world kind's state type, and is
// specialized per kind by the debate, game, society, and logic
// subpackages via the Hooks they supply.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/arbiter"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/rules"
	"github.com/worldengine/core/pkg/scheduler"
	"github.com/worldengine/core/pkg/worldstate"
)

// Stateful is the subset of worldstate.Base's promoted methods the
// kernel needs; every per-kind state satisfies it automatically by
// embedding worldstate.Base. Go's generics only expose methods named in
// a type parameter's constraint, not the full method set of its type
// set's members, so every Base method the kernel calls on State must be
// listed here even though *S already has it through embedding.
type Stateful interface {
	Terminated() bool
	Terminate(reason string)
	Reason() string
	RegisterEntity(e *worldstate.Entity)
	UnregisterEntity(id string)
}

// Hooks supplies the kind-specific behavior the generic kernel cannot
// express on its own: which events bookend a step, what bookkeeping
// follows a successful apply, how phase/turn/tick advancement works,
// and Debate's cold-start intervention.
type Hooks[S any, PS interface {
	*S
	Stateful
}] struct {
	// StepStartEvent returns the kind-specific event emitted at the top
	// of Step (spec §4.4 step 1), or nil if this kind has none.
	StepStartEvent func(s *S) *action.WorldEvent

	// EmitArbiterRejectionEvent is true only for Game: other kinds
	// silently drop arbiter-excluded actions without an event (spec
	// §4.4 step 2).
	EmitArbiterRejectionEvent bool

	// PostApply runs kind-specific bookkeeping after a successful apply
	// (spec §4.4 step 3c).
	PostApply func(s *S, a action.Action, r action.ActionResult)

	// ColdStart runs Debate's cold-start intervention when resolved is
	// empty (spec §4.4, "Cold-start intervention"). nil for other kinds.
	ColdStart func(ctx context.Context, s *S, narr *narrator.Narrator) []action.WorldEvent

	// Advance runs kind-specific phase/turn/tick advancement (spec §4.4
	// step 5) and returns any events it produced.
	Advance func(ctx context.Context, s *S, narr *narrator.Narrator) []action.WorldEvent

	// EndEvent returns the kind-specific termination event (spec §4.4
	// step 6) given the termination reason.
	EndEvent func(s *S, reason string) action.WorldEvent

	// NewState rebuilds a fresh initial state for Reset, closing over
	// whatever parameters the per-kind constructor needs. Nil disables
	// Reset (it becomes a no-op).
	NewState func() PS
}

// Kernel is the generic WorldEngine step loop. S is a per-kind state
// (e.g. worldstate/debate.State); PS pins down that *S satisfies
// Stateful via its embedded worldstate.Base — the standard Go idiom
// for requiring a pointer method set on a generic value type.
type Kernel[S any, PS interface {
	*S
	Stateful
}] struct {
	SessionID string
	State     PS
	Rules     rules.Engine[S]
	Arbiter   arbiter.Arbiter[S]
	Scheduler scheduler.Scheduler[S]
	Log       eventlog.Store
	Narrator  *narrator.Narrator
	Hooks     Hooks[S, PS]
}

// New builds a Kernel. Type parameters are inferred from state.
func New[S any, PS interface {
	*S
	Stateful
}](sessionID string, state PS, re rules.Engine[S], ar arbiter.Arbiter[S], sc scheduler.Scheduler[S], log eventlog.Store, narr *narrator.Narrator, hooks Hooks[S, PS]) *Kernel[S, PS] {
	return &Kernel[S, PS]{
		SessionID: sessionID,
		State:     state,
		Rules:     re,
		Arbiter:   ar,
		Scheduler: sc,
		Log:       log,
		Narrator:  narr,
		Hooks:     hooks,
	}
}

// IsTerminated reports whether the world has ended.
func (k *Kernel[S, PS]) IsTerminated() bool { return k.State.Terminated() }

// GetWorldState returns the live world state. Callers must treat it as
// a read-only snapshot (spec §5): the kernel is its sole mutator.
func (k *Kernel[S, PS]) GetWorldState() PS { return k.State }

// GetEvents returns up to limit of the most recent events for this session.
func (k *Kernel[S, PS]) GetEvents(ctx context.Context, limit int) ([]action.WorldEvent, error) {
	return k.Log.GetRecent(ctx, k.SessionID, limit)
}

// GetTerminationReason returns why the world ended, or "" if it hasn't.
func (k *Kernel[S, PS]) GetTerminationReason() string { return k.State.Reason() }

// RegisterEntity adds or replaces an entity in the world.
func (k *Kernel[S, PS]) RegisterEntity(e *worldstate.Entity) { k.State.RegisterEntity(e) }

// UnregisterEntity removes an entity from the world.
func (k *Kernel[S, PS]) UnregisterEntity(id string) { k.State.UnregisterEntity(id) }

// Reset rebuilds the world from scratch via Hooks.NewState, discarding
// all accumulated state. A no-op if the kind didn't supply NewState.
func (k *Kernel[S, PS]) Reset() {
	if k.Hooks.NewState == nil {
		return
	}
	k.State = k.Hooks.NewState()
}

func (k *Kernel[S, PS]) emit(ctx context.Context, ev action.WorldEvent) action.WorldEvent {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	seq, err := k.Log.Append(ctx, k.SessionID, ev)
	if err != nil {
		slog.Error("event log append failed", "session", k.SessionID, "eventType", ev.EventType, "error", err)
		return ev
	}
	ev.Sequence = seq
	return ev
}

// Step executes one deterministic pass of the algorithm in spec §4.4.
// Once the world is terminated, every subsequent call is an idempotent
// no-op returning an empty result set (spec invariant 4).
func (k *Kernel[S, PS]) Step(ctx context.Context, actions []action.Action) ([]action.ActionResult, error) {
	if k.State.Terminated() {
		return nil, nil
	}

	if k.Hooks.StepStartEvent != nil {
		if ev := k.Hooks.StepStartEvent(k.State); ev != nil {
			k.emit(ctx, *ev)
		}
	}

	resolved := k.Arbiter.ResolveConflicts(actions, k.State)

	var results []action.ActionResult
	excluded := exclude(actions, resolved)
	for _, a := range excluded {
		results = append(results, action.ActionResult{
			Action:        a,
			Success:       false,
			FailureReason: "rejected by arbiter/turn",
		})
		if k.Hooks.EmitArbiterRejectionEvent {
			k.emit(ctx, action.WorldEvent{
				EventType: "action_rejected",
				Source:    a.AgentID,
				Content:   "rejected by arbiter/turn",
				Meta:      map[string]interface{}{"actionId": a.ActionID},
			})
		}
	}

	if len(resolved) == 0 && k.Hooks.ColdStart != nil {
		for _, ev := range k.Hooks.ColdStart(ctx, k.State, k.Narrator) {
			k.emit(ctx, ev)
		}
	}

	for _, a := range resolved {
		v := k.Rules.Validate(a, k.State)
		if !v.IsValid {
			k.emit(ctx, action.WorldEvent{
				EventType: "action_rejected",
				Source:    a.AgentID,
				Content:   a.ActionType,
				Meta:      map[string]interface{}{"actionId": a.ActionID, "errors": v.Errors},
			})
			results = append(results, action.ActionResult{Action: a, Success: false, FailureReason: firstOrJoin(v.Errors)})
			continue
		}

		r := k.Rules.Apply(a, k.State)
		for i, ev := range r.Events {
			r.Events[i] = k.emit(ctx, ev)
		}
		results = append(results, r)

		if r.Success && k.Hooks.PostApply != nil {
			k.Hooks.PostApply(k.State, a, r)
		}
	}

	_, constraintEvents := k.Rules.EnforceConstraints(k.State)
	for _, ev := range constraintEvents {
		k.emit(ctx, ev)
	}

	if k.Hooks.Advance != nil {
		for _, ev := range k.Hooks.Advance(ctx, k.State, k.Narrator) {
			k.emit(ctx, ev)
		}
	}

	if !k.State.Terminated() && k.Scheduler.ShouldTerminate(k.State) {
		reason := "termination condition met"
		k.State.Terminate(reason)
		if k.Hooks.EndEvent != nil {
			k.emit(ctx, k.Hooks.EndEvent(k.State, reason))
		}
	}

	return results, nil
}

func exclude(all, keep []action.Action) []action.Action {
	keepIDs := make(map[string]bool, len(keep))
	for _, a := range keep {
		keepIDs[a.ActionID] = true
	}
	var out []action.Action
	for _, a := range all {
		if !keepIDs[a.ActionID] {
			out = append(out, a)
		}
	}
	return out
}

func firstOrJoin(errs []string) string {
	if len(errs) == 0 {
		return "validation failed"
	}
	return errs[0]
}

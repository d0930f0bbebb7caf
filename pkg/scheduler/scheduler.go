// Package scheduler declares the generic Scheduler contract (spec
// §4.3) implemented once per world kind by the debate, game, society,
// and logic subpackages.
package scheduler

import "github.com/worldengine/core/pkg/worldstate"

// Scheduler tracks world time and phase progression and decides
// termination. Per-kind phase/turn/tick advancement beyond this common
// contract (AdvanceTurn, AdvanceTick, AdvanceRound, OutgoingPhase) is
// exposed directly on each concrete scheduler, since the kernel is
// already specialized per world kind and calls them by name.
type Scheduler[S any] interface {
	NextTick(s *S)
	CurrentTime(s *S) worldstate.WorldTime
	ShouldAdvancePhase(s *S) bool
	GetNextPhase(s *S) (worldstate.Phase, bool)
	ShouldTerminate(s *S) bool
	SetTimeScale(s *S, scale float64)
}

// Package logic implements the Scheduler contract for the Logic world
// kind (spec §4.3).
package logic

import (
	"github.com/worldengine/core/pkg/worldstate"
	wlogic "github.com/worldengine/core/pkg/worldstate/logic"
)

// Scheduler is the Logic Scheduler. Logic has a single "research"
// phase; round advancement is exposed separately via AdvanceRound.
type Scheduler struct{}

// New builds a Logic Scheduler.
func New() *Scheduler { return &Scheduler{} }

// NextTick advances the generic world-time tick counter once per step.
func (sch *Scheduler) NextTick(s *wlogic.State) {
	s.CurrentTime.Tick++
}

// CurrentTime returns the world's current time.
func (sch *Scheduler) CurrentTime(s *wlogic.State) worldstate.WorldTime {
	return s.CurrentTime
}

// SetTimeScale adjusts the world's time scale.
func (sch *Scheduler) SetTimeScale(s *wlogic.State, scale float64) {
	s.CurrentTime.TimeScale = scale
}

// ShouldAdvancePhase is always false: Logic has a single phase.
func (sch *Scheduler) ShouldAdvancePhase(_ *wlogic.State) bool { return false }

// GetNextPhase always reports no next phase: Logic has a single phase.
func (sch *Scheduler) GetNextPhase(_ *wlogic.State) (worldstate.Phase, bool) {
	return worldstate.Phase{}, false
}

// ShouldTerminate reports whether the problem is solved or the round
// budget is exhausted.
func (sch *Scheduler) ShouldTerminate(s *wlogic.State) bool {
	return s.Problem.IsSolved || s.Discussion.CurrentRound >= s.Discussion.MaxRounds
}

// AdvanceRound increments the discussion round counter.
func (sch *Scheduler) AdvanceRound(s *wlogic.State) {
	s.Discussion.CurrentRound++
	s.CurrentPhase.PhaseRound = s.Discussion.CurrentRound
}

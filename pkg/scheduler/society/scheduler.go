// Package society implements the Scheduler contract for the Society
// world kind (spec §4.3).
package society

import (
	"github.com/worldengine/core/pkg/worldstate"
	wsociety "github.com/worldengine/core/pkg/worldstate/society"
)

// Scheduler is the Society Scheduler. Society has a single "simulation"
// phase; tick advancement is exposed separately via AdvanceTick.
type Scheduler struct{}

// New builds a Society Scheduler.
func New() *Scheduler { return &Scheduler{} }

// NextTick advances the generic world-time tick counter once per step.
func (sch *Scheduler) NextTick(s *wsociety.State) {
	s.CurrentTime.Tick++
}

// CurrentTime returns the world's current time.
func (sch *Scheduler) CurrentTime(s *wsociety.State) worldstate.WorldTime {
	return s.CurrentTime
}

// SetTimeScale adjusts the world's time scale.
func (sch *Scheduler) SetTimeScale(s *wsociety.State, scale float64) {
	s.CurrentTime.TimeScale = scale
}

// ShouldAdvancePhase is always false: Society has a single phase.
func (sch *Scheduler) ShouldAdvancePhase(_ *wsociety.State) bool { return false }

// GetNextPhase always reports no next phase: Society has a single phase.
func (sch *Scheduler) GetNextPhase(_ *wsociety.State) (worldstate.Phase, bool) {
	return worldstate.Phase{}, false
}

// ShouldTerminate reports whether no agents remain active, or the
// configured tick budget is exhausted.
func (sch *Scheduler) ShouldTerminate(s *wsociety.State) bool {
	if len(s.ActiveAgentIDs()) == 0 {
		return true
	}
	maxTicks := int64(s.CurrentPhase.PhaseMaxRounds)
	return maxTicks > 0 && s.TimeTick >= maxTicks
}

// AdvanceTick increments the world tick and regenerates the
// environment pool.
func (sch *Scheduler) AdvanceTick(s *wsociety.State) {
	s.TimeTick++
	s.CurrentPhase.PhaseRound = int(s.TimeTick)
	s.GlobalResources.EnvironmentPool += s.GlobalResources.RegenerationRate
}

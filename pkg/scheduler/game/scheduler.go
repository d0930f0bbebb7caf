// Package game implements the Scheduler contract for the Game world
// kind (spec §4.3).
package game

import (
	"github.com/worldengine/core/pkg/worldstate"
	wgame "github.com/worldengine/core/pkg/worldstate/game"
)

// Scheduler is the Game Scheduler. Game has a single implicit
// "playing" phase, so phase advancement is always a no-op; turn
// advancement is exposed separately via AdvanceTurn.
type Scheduler struct{}

// New builds a Game Scheduler.
func New() *Scheduler { return &Scheduler{} }

// NextTick advances the generic world-time tick counter once per step.
func (sch *Scheduler) NextTick(s *wgame.State) {
	s.CurrentTime.Tick++
}

// CurrentTime returns the world's current time.
func (sch *Scheduler) CurrentTime(s *wgame.State) worldstate.WorldTime {
	return s.CurrentTime
}

// SetTimeScale adjusts the world's time scale.
func (sch *Scheduler) SetTimeScale(s *wgame.State, scale float64) {
	s.CurrentTime.TimeScale = scale
}

// ShouldAdvancePhase is always false: Game has a single implicit phase.
func (sch *Scheduler) ShouldAdvancePhase(_ *wgame.State) bool { return false }

// GetNextPhase always reports no next phase: Game has a single implicit phase.
func (sch *Scheduler) GetNextPhase(_ *wgame.State) (worldstate.Phase, bool) {
	return worldstate.Phase{}, false
}

// ShouldTerminate reports whether the match has ended or the turn
// budget is exhausted.
func (sch *Scheduler) ShouldTerminate(s *wgame.State) bool {
	return s.Game.GamePhase == wgame.PhaseEnded || s.Game.TotalTurns >= s.Game.MaxTurns
}

// AdvanceTurn steps turnIndex to the next living agent, wrapping
// around turnOrder. If no living agent remains, the match ends.
func (sch *Scheduler) AdvanceTurn(s *wgame.State) {
	s.Game.TotalTurns++
	n := len(s.Game.TurnOrder)
	if n == 0 {
		s.Game.GamePhase = wgame.PhaseEnded
		return
	}
	for i := 1; i <= n; i++ {
		idx := (s.Game.TurnIndex + i) % n
		id := s.Game.TurnOrder[idx]
		if ag, ok := s.Agents[id]; ok && ag.IsAlive {
			s.Game.TurnIndex = idx
			s.Game.CurrentTurnAgentID = id
			return
		}
	}
	s.Game.GamePhase = wgame.PhaseEnded
}

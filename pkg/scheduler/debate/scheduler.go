// Package debate implements the Scheduler contract for the Debate
// world kind (spec §4.3).
package debate

import (
	"time"

	"github.com/worldengine/core/pkg/worldstate"
	wdebate "github.com/worldengine/core/pkg/worldstate/debate"
)

// Scheduler is the Debate Scheduler. Phase progression comes entirely
// from the session's own Flow, so it holds no configuration.
type Scheduler struct{}

// New builds a Debate Scheduler.
func New() *Scheduler { return &Scheduler{} }

// NextTick advances the generic world-time tick counter once per step.
func (sch *Scheduler) NextTick(s *wdebate.State) {
	s.CurrentTime.Tick++
}

// CurrentTime returns the world's current time.
func (sch *Scheduler) CurrentTime(s *wdebate.State) worldstate.WorldTime {
	return s.CurrentTime
}

// SetTimeScale adjusts the world's time scale.
func (sch *Scheduler) SetTimeScale(s *wdebate.State, scale float64) {
	s.CurrentTime.TimeScale = scale
}

func (sch *Scheduler) currentFlowPhase(s *wdebate.State) (wdebate.PhaseFlowConfig, int, bool) {
	for i, p := range s.Flow.Phases {
		if p.PhaseID == s.CurrentPhase.PhaseID {
			return p, i, true
		}
	}
	return wdebate.PhaseFlowConfig{}, -1, false
}

// ShouldAdvancePhase reports whether the current phase's round budget
// is exhausted or its timeout end-condition has elapsed.
func (sch *Scheduler) ShouldAdvancePhase(s *wdebate.State) bool {
	p, _, ok := sch.currentFlowPhase(s)
	if !ok {
		return false
	}
	if s.CurrentPhase.PhaseRound >= p.MaxRounds {
		return true
	}
	if p.EndCondition == "timeout" && p.TimeoutSeconds > 0 {
		if time.Since(s.CurrentPhase.StartedAt) >= time.Duration(p.TimeoutSeconds)*time.Second {
			return true
		}
	}
	return false
}

// OutgoingPhase returns the flow config of the phase about to be left,
// so the kernel can check ForceSummary before calling GetNextPhase.
func (sch *Scheduler) OutgoingPhase(s *wdebate.State) (wdebate.PhaseFlowConfig, bool) {
	p, _, ok := sch.currentFlowPhase(s)
	return p, ok
}

// GetNextPhase advances to the next phase in the flow, copying its
// allowInterrupt/speakingOrder onto the debate sub-record, and returns
// the new phase. Returns ok=false when the flow is already on its last
// phase.
func (sch *Scheduler) GetNextPhase(s *wdebate.State) (worldstate.Phase, bool) {
	_, idx, ok := sch.currentFlowPhase(s)
	if !ok || idx+1 >= len(s.Flow.Phases) {
		return worldstate.Phase{}, false
	}
	next := s.Flow.Phases[idx+1]
	s.CurrentPhase = worldstate.Phase{
		PhaseID:        next.PhaseID,
		PhaseType:      next.PhaseType,
		PhaseMaxRounds: next.MaxRounds,
		StartedAt:      time.Now(),
	}
	s.Debate.AllowInterrupt = next.AllowInterrupt
	s.Debate.SpeakingOrder = next.SpeakingOrder
	return s.CurrentPhase, true
}

// ShouldTerminate reports whether the flow's last phase has exhausted
// its rounds, or the session's global timeout has elapsed.
func (sch *Scheduler) ShouldTerminate(s *wdebate.State) bool {
	if s.Flow.GlobalTimeoutSeconds > 0 {
		if time.Since(s.StartedAt) >= time.Duration(s.Flow.GlobalTimeoutSeconds)*time.Second {
			return true
		}
	}
	p, idx, ok := sch.currentFlowPhase(s)
	if !ok {
		return true
	}
	isLast := idx == len(s.Flow.Phases)-1
	return isLast && s.CurrentPhase.PhaseRound >= p.MaxRounds
}

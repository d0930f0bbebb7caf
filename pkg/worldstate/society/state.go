// Package society holds the Society (tick-driven social simulation) world
// kind's state extension.
package society

import "github.com/worldengine/core/pkg/worldstate"

// Role is an agent's social role, affecting action bonuses.
type Role string

const (
	RoleWorker   Role = "worker"
	RoleMerchant Role = "merchant"
	RoleLeader   Role = "leader"
	RoleHelper   Role = "helper"
	RoleNeutral  Role = "neutral"
)

// AgentState is the per-agent extension for the Society world kind.
type AgentState struct {
	Role             Role               `json:"role"`
	Resources        float64            `json:"resources"`
	Mood             float64            `json:"mood"` // [-1, 1]
	Relationships    map[string]float64 `json:"relationships"` // peerId -> strength [-1,1]
	IsActive         bool               `json:"isActive"`
	ZeroResourceTicks int               `json:"zeroResourceTicks"`
	LowMoodTicks     int                `json:"lowMoodTicks"`
	LastActionTick   int64              `json:"lastActionTick"`
}

// GlobalResources tracks world-level shared pools.
type GlobalResources struct {
	CommunityPool     float64 `json:"communityPool"`
	EnvironmentPool   float64 `json:"environmentPool"`
	RegenerationRate  float64 `json:"regenerationRate"`
}

// Statistics is a rolling aggregate snapshot, recomputed by constraint
// enforcement each tick.
type Statistics struct {
	ActiveAgents  int     `json:"activeAgents"`
	AverageMood   float64 `json:"averageMood"`
	TotalExits    int     `json:"totalExits"`
	GiniCoeff     float64 `json:"giniCoefficient"`
}

// State is the full Society world state.
type State struct {
	worldstate.Base
	TimeTick        int64                  `json:"timeTick"`
	Agents          map[string]*AgentState `json:"agents"`
	GlobalResources GlobalResources        `json:"globalResources"`
	StabilityIndex  float64                `json:"stabilityIndex"`
	Statistics      Statistics             `json:"statistics"`
}

// New builds an initialized Society state.
func New(worldID string, agents map[string]Role, startResources, regenRate float64, maxTicks int) *State {
	s := &State{
		Base:   worldstate.NewBase(worldID, worldstate.KindSociety),
		Agents: make(map[string]*AgentState),
		GlobalResources: GlobalResources{
			RegenerationRate: regenRate,
		},
	}
	s.CurrentPhase = worldstate.Phase{
		PhaseID:        "simulation",
		PhaseType:      "simulation",
		PhaseMaxRounds: maxTicks,
	}
	for id, role := range agents {
		s.Agents[id] = &AgentState{
			Role:          role,
			Resources:     startResources,
			Mood:          0,
			Relationships: make(map[string]float64),
			IsActive:      true,
		}
	}
	return s
}

// ActiveAgentIDs returns the IDs of agents still active, in map-iteration
// order made deterministic by the caller sorting if needed.
func (s *State) ActiveAgentIDs() []string {
	var out []string
	for id, a := range s.Agents {
		if a.IsActive {
			out = append(out, id)
		}
	}
	return out
}

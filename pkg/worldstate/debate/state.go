// Package debate holds the Debate world kind's state extension.
package debate

import "github.com/worldengine/core/pkg/worldstate"

// AlignmentType describes how participants are grouped.
type AlignmentType string

const (
	AlignmentOpposing     AlignmentType = "opposing"
	AlignmentFree         AlignmentType = "free"
	AlignmentMultiFaction AlignmentType = "multi-faction"
)

// SpeakingOrder controls how the arbiter picks the next speaker.
type SpeakingOrder string

const (
	SpeakingFree       SpeakingOrder = "free"
	SpeakingRoundRobin SpeakingOrder = "round-robin"
	SpeakingModerated  SpeakingOrder = "moderated"
)

// Alignment describes the factional structure of a debate.
type Alignment struct {
	Type     AlignmentType `json:"type"`
	Factions []string      `json:"factions,omitempty"`
}

// Sub is the debate-specific sub-record described in spec §3.
type Sub struct {
	SpeakingOrder     SpeakingOrder  `json:"speakingOrder"`
	ActiveSpeaker     string         `json:"activeSpeaker,omitempty"`
	LastSpeakerID     string         `json:"lastSpeakerId,omitempty"`
	ConsecutiveSpeaks int            `json:"consecutiveSpeaks"`
	IdleRounds        int            `json:"idleRounds"`
	AllowInterrupt    bool           `json:"allowInterrupt"`
	InterventionLevel int            `json:"interventionLevel"` // 0..3
	ColdThreshold     int            `json:"coldThreshold"`
	SpeakCounts       map[string]int `json:"speakCounts"`
	RoundRobinIndex   int            `json:"roundRobinIndex"`
	AgentIDs          []string       `json:"agentIds"`
}

// PhaseFlowConfig is one phase in a debate's linear flow.
type PhaseFlowConfig struct {
	PhaseID            string        `json:"phaseId"`
	PhaseType          string        `json:"phaseType"`
	MaxRounds          int           `json:"maxRounds"`
	EndCondition       string        `json:"endCondition,omitempty"` // "rounds" | "timeout"
	TimeoutSeconds     int           `json:"timeoutSeconds,omitempty"`
	AllowInterrupt     bool          `json:"allowInterrupt"`
	SpeakingOrder      SpeakingOrder `json:"speakingOrder"`
	ForceSummary       bool          `json:"forceSummary"`
	MaxTokensPerSpeech int           `json:"maxTokensPerSpeech,omitempty"`
}

// Flow is the ordered phase list plus the global session timeout.
type Flow struct {
	Phases              []PhaseFlowConfig `json:"phases"`
	GlobalTimeoutSeconds int              `json:"globalTimeoutSeconds,omitempty"`
}

// State is the full Debate world state.
type State struct {
	worldstate.Base
	Topic     string    `json:"topic"`
	Alignment Alignment `json:"alignment"`
	Debate    Sub       `json:"debate"`
	Flow      Flow      `json:"flow"`
}

// New builds an initialized Debate state for the given flow and participants.
func New(worldID string, topic string, alignment Alignment, flow Flow, agentIDs []string) *State {
	s := &State{
		Base:      worldstate.NewBase(worldID, worldstate.KindDebate),
		Topic:     topic,
		Alignment: alignment,
		Flow:      flow,
		Debate: Sub{
			SpeakCounts: make(map[string]int),
			AgentIDs:    append([]string(nil), agentIDs...),
		},
	}
	if len(flow.Phases) > 0 {
		p := flow.Phases[0]
		s.Debate.SpeakingOrder = p.SpeakingOrder
		s.Debate.AllowInterrupt = p.AllowInterrupt
		s.CurrentPhase = worldstate.Phase{
			PhaseID:        p.PhaseID,
			PhaseType:      p.PhaseType,
			PhaseMaxRounds: p.MaxRounds,
		}
	}
	for _, id := range agentIDs {
		s.Debate.SpeakCounts[id] = 0
	}
	return s
}

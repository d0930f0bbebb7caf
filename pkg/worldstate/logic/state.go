// Package logic holds the Logic (collaborative formal derivation) world
// kind's state extension.
package logic

import "github.com/worldengine/core/pkg/worldstate"

// Proposition is a named hypothesis, available as a premise.
type Proposition struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
}

// ConclusionStatus tracks a conclusion's lifecycle.
type ConclusionStatus string

const (
	ConclusionPending  ConclusionStatus = "pending"
	ConclusionAccepted ConclusionStatus = "accepted"
	ConclusionRejected ConclusionStatus = "rejected"
)

// Conclusion is a derived statement, either pending review or accepted.
type Conclusion struct {
	ID            string           `json:"id"`
	Statement     string           `json:"statement"`
	Rule          string           `json:"rule,omitempty"`
	Premises      []string         `json:"premises"`
	ProposedBy    string           `json:"proposedBy"`
	Status        ConclusionStatus `json:"status"`
	Contributions []string         `json:"contributions,omitempty"`
}

// GoalStatus tracks whether a goal has been proved.
type GoalStatus string

const (
	GoalOpen   GoalStatus = "open"
	GoalProved GoalStatus = "proved"
)

// Goal is a target statement the discussion is trying to prove.
type Goal struct {
	ID     string     `json:"id"`
	LaTeX  string     `json:"latex"`
	Status GoalStatus `json:"status"`
}

// RefutationType enumerates the kinds of refutation a Refute action can carry.
const (
	RefutationGeneral      = "general"
	RefutationContradiction = "contradiction"
)

// Refutation is a recorded rejection of a proposal.
type Refutation struct {
	ID          string `json:"id"`
	TargetID    string `json:"targetId"`
	Reason      string `json:"reason"`
	Type        string `json:"type"`
	RefutedByID string `json:"refutedById"`
}

// Problem bundles the statement being investigated with the full
// proposal/goal/refutation bookkeeping.
type Problem struct {
	ProblemID        string                 `json:"problemId"`
	Statement        string                 `json:"statement"`
	Hypotheses       map[string]Proposition `json:"hypotheses"`
	Conclusions      map[string]*Conclusion `json:"conclusions"`
	PendingProposals map[string]*Conclusion `json:"pendingProposals"`
	Goals            map[string]*Goal       `json:"goals"`
	Refutations      map[string]*Refutation `json:"refutations"`
	IsSolved         bool                   `json:"isSolved"`
}

// ResearcherStats tracks one researcher's contribution history.
type ResearcherStats struct {
	ID                   string `json:"id"`
	SuccessfulRefutations int    `json:"successfulRefutations"`
	RejectedProposals     int    `json:"rejectedProposals"`
	AcceptedProposals     int    `json:"acceptedProposals"`
}

// DiscussionMode describes how the discussion proceeds.
type DiscussionMode string

const (
	ModeOpenFloor DiscussionMode = "open-floor"
	ModeModerated DiscussionMode = "moderated"
)

// Discussion tracks the research round state.
type Discussion struct {
	CurrentRound   int            `json:"currentRound"`
	MaxRounds      int            `json:"maxRounds"`
	CurrentSpeaker string         `json:"currentSpeaker,omitempty"`
	Mode           DiscussionMode `json:"mode"`
}

// State is the full Logic world state.
type State struct {
	worldstate.Base
	Problem     Problem                    `json:"problem"`
	Researchers map[string]*ResearcherStats `json:"researchers"`
	Discussion  Discussion                 `json:"discussion"`
}

// New builds an initialized Logic state for the given problem statement,
// hypotheses, goals, and registered researchers.
func New(worldID, problemID, statement string, hypotheses map[string]Proposition, goals map[string]*Goal, researcherIDs []string, maxRounds int) *State {
	s := &State{
		Base: worldstate.NewBase(worldID, worldstate.KindLogic),
		Problem: Problem{
			ProblemID:        problemID,
			Statement:        statement,
			Hypotheses:       hypotheses,
			Conclusions:      make(map[string]*Conclusion),
			PendingProposals: make(map[string]*Conclusion),
			Goals:            goals,
			Refutations:      make(map[string]*Refutation),
		},
		Researchers: make(map[string]*ResearcherStats),
		Discussion: Discussion{
			MaxRounds: maxRounds,
			Mode:      ModeOpenFloor,
		},
	}
	s.CurrentPhase = worldstate.Phase{
		PhaseID:        "research",
		PhaseType:      "research",
		PhaseMaxRounds: maxRounds,
	}
	for _, id := range researcherIDs {
		s.Researchers[id] = &ResearcherStats{ID: id}
	}
	return s
}

// Package worldstate defines the base world state shape shared by every
// world kind, along with its entity/relationship/resource building blocks.
// Per-kind extensions (Debate, Game, Society, Logic) live in the
// debate, game, society, and logic subpackages of pkg/worldstate.
package worldstate

import "time"

// WorldKind tags which concrete world specialization owns a state.
type WorldKind string

const (
	KindDebate  WorldKind = "debate"
	KindGame    WorldKind = "game"
	KindSociety WorldKind = "society"
	KindLogic   WorldKind = "logic"
)

// EntityType enumerates the kinds of entities a world can contain.
type EntityType string

const (
	EntityAgent    EntityType = "agent"
	EntityObject   EntityType = "object"
	EntityLocation EntityType = "location"
	EntityZone     EntityType = "zone"
)

// EntityStatus tracks whether an entity still participates in the world.
type EntityStatus string

const (
	EntityActive      EntityStatus = "active"
	EntityInactive    EntityStatus = "inactive"
	EntityDestroyed   EntityStatus = "destroyed"
)

// Position is an optional spatial placement for an entity.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Entity is anything the world tracks by ID: an agent, a prop, a location.
type Entity struct {
	ID         string                 `json:"id"`
	Type       EntityType             `json:"type"`
	Name       string                 `json:"name"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Position   *Position              `json:"position,omitempty"`
	Status     EntityStatus           `json:"status"`
}

// Relationship is a directed or symmetric link between two entities,
// carrying a signed strength.
type Relationship struct {
	FromID   string  `json:"fromId"`
	ToID     string  `json:"toId"`
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength"`
}

// Resource is a named, quantified pool owned by an entity or the world.
type Resource struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"`
}

// WorldTime tracks the world's notion of elapsed time.
type WorldTime struct {
	Tick       int64   `json:"tick"`
	Round      int     `json:"round"`
	TimeScale  float64 `json:"timeScale"`
}

// Phase is a named segment of a world's flow, with its own round budget.
type Phase struct {
	PhaseID        string                 `json:"phaseId"`
	PhaseType      string                 `json:"phaseType"`
	PhaseRound     int                    `json:"phaseRound"`
	PhaseMaxRounds int                    `json:"phaseMaxRounds"` // < 0 means unbounded
	StartedAt      time.Time              `json:"startedAt"`
	PhaseRules     map[string]interface{} `json:"phaseRules,omitempty"`
}

// Unbounded reports whether a phase has no round limit.
func (p Phase) Unbounded() bool { return p.PhaseMaxRounds < 0 }

// Base holds the fields common to every world kind's state. Per-kind state
// structs embed Base and add their own extension fields.
type Base struct {
	WorldID           string                `json:"worldId"`
	WorldType         WorldKind             `json:"worldType"`
	StartedAt         time.Time             `json:"startedAt"`
	CurrentTime       WorldTime             `json:"currentTime"`
	CurrentPhase      Phase                 `json:"currentPhase"`
	Entities          map[string]*Entity    `json:"entities"`
	Relationships     []Relationship        `json:"relationships"`
	Resources         map[string]*Resource  `json:"resources"`
	GlobalVars        map[string]interface{} `json:"globalVars"`
	RuleStates        map[string]bool       `json:"ruleStates"`
	IsTerminated      bool                  `json:"isTerminated"`
	TerminationReason string                `json:"terminationReason,omitempty"`
}

// NewBase builds an empty Base for the given world kind.
func NewBase(worldID string, kind WorldKind) Base {
	return Base{
		WorldID:   worldID,
		WorldType: kind,
		StartedAt: time.Now(),
		CurrentTime: WorldTime{
			TimeScale: 1.0,
		},
		Entities:   make(map[string]*Entity),
		Resources:  make(map[string]*Resource),
		GlobalVars: make(map[string]interface{}),
		RuleStates: make(map[string]bool),
	}
}

// Terminated reports whether the world has already ended.
func (b *Base) Terminated() bool { return b.IsTerminated }

// Reason returns the termination reason, or "" if the world is still running.
func (b *Base) Reason() string { return b.TerminationReason }

// Terminate ends the world with the given reason. Idempotent: once
// terminated, further calls are no-ops (spec invariant 4).
func (b *Base) Terminate(reason string) {
	if b.IsTerminated {
		return
	}
	b.IsTerminated = true
	b.TerminationReason = reason
}

// RegisterEntity adds or replaces an entity in the world.
func (b *Base) RegisterEntity(e *Entity) {
	b.Entities[e.ID] = e
}

// UnregisterEntity removes an entity from the world.
func (b *Base) UnregisterEntity(id string) {
	delete(b.Entities, id)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

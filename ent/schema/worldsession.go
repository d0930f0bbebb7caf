package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// WorldSession holds the schema definition for the persisted session
// summary projection (SPEC_FULL.md §3.1/§4.12). It documents the
// world_sessions table shape for reference; the table itself is
// created by a hand-written migration and read/written via raw SQL in
// pkg/sessionstore, not through a generated ent client (see DESIGN.md).
type WorldSession struct {
	ent.Schema
}

// Fields of the WorldSession.
func (WorldSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Unique().
			Immutable(),
		field.String("world_type").
			Comment("debate | game | society | logic"),
		field.String("status").
			Comment("pending | running | paused | ended | failed"),
		field.String("created_by"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("ended_at").
			Optional().
			Nillable(),
		field.String("termination_reason").
			Optional().
			Nillable(),
	}
}

// Indexes of the WorldSession.
func (WorldSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_by"),
		index.Fields("status"),
	}
}

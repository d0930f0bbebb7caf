// Package sessionstore persists the session-summary projection described
// in SPEC_FULL.md §3.1/§4.12: a row per session upserted on every
// lifecycle transition, independent of the live engine state and event
// log (which never touch Postgres).
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/worldengine/core/pkg/services"
)

// Summary is the persisted projection of one session.
type Summary struct {
	SessionID         string
	WorldType         string
	Status            string
	CreatedBy         string
	CreatedAt         time.Time
	StartedAt         *time.Time
	EndedAt           *time.Time
	TerminationReason string
}

// Filter narrows a List query.
type Filter struct {
	CreatedBy string
	Status    string
	Limit     int
	Offset    int
}

// Store is a thin, hand-written repository over world_sessions. It uses
// raw SQL via pgx rather than a generated ORM client (see DESIGN.md).
type Store struct {
	pool *pgxpool.Pool
}

// New builds a Store over an already-migrated pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Upsert writes the current summary state, inserting on first write and
// overwriting every field on subsequent transitions.
func (s *Store) Upsert(ctx context.Context, summary Summary) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO world_sessions
			(session_id, world_type, status, created_by, created_at, started_at, ended_at, termination_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			status             = EXCLUDED.status,
			started_at         = EXCLUDED.started_at,
			ended_at           = EXCLUDED.ended_at,
			termination_reason = EXCLUDED.termination_reason`,
		summary.SessionID, summary.WorldType, summary.Status, summary.CreatedBy,
		summary.CreatedAt, summary.StartedAt, summary.EndedAt, summary.TerminationReason,
	)
	if err != nil {
		return fmt.Errorf("upsert session summary %s: %w", summary.SessionID, err)
	}
	return nil
}

// Get retrieves one session summary by ID.
func (s *Store) Get(ctx context.Context, sessionID string) (Summary, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT session_id, world_type, status, created_by, created_at, started_at, ended_at, termination_reason
		FROM world_sessions WHERE session_id = $1`, sessionID)

	var out Summary
	err := row.Scan(&out.SessionID, &out.WorldType, &out.Status, &out.CreatedBy,
		&out.CreatedAt, &out.StartedAt, &out.EndedAt, &out.TerminationReason)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, services.ErrNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("get session summary %s: %w", sessionID, err)
	}
	return out, nil
}

// List returns session summaries matching filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Summary, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, world_type, status, created_by, created_at, started_at, ended_at, termination_reason
		FROM world_sessions
		WHERE ($1 = '' OR created_by = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		filter.CreatedBy, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list session summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.SessionID, &s.WorldType, &s.Status, &s.CreatedBy,
			&s.CreatedAt, &s.StartedAt, &s.EndedAt, &s.TerminationReason); err != nil {
			return nil, fmt.Errorf("scan session summary row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a session summary row.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM world_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session summary %s: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}

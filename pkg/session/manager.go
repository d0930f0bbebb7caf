package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/engine"
	enginedebate "github.com/worldengine/core/pkg/engine/debate"
	enginegame "github.com/worldengine/core/pkg/engine/game"
	enginelogic "github.com/worldengine/core/pkg/engine/logic"
	enginesociety "github.com/worldengine/core/pkg/engine/society"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/narrator"
	"github.com/worldengine/core/pkg/rng"
	"github.com/worldengine/core/pkg/services"
	"github.com/worldengine/core/pkg/sessionstore"
	"github.com/worldengine/core/pkg/tickdriver"
	"github.com/worldengine/core/pkg/worldstate"
)

// record is the live, mutable table entry behind one sessionId. The
// engine is exclusively owned by its tick driver once running (spec §5);
// Manager only reads record.status/times under its own lock.
type record struct {
	mu sync.Mutex

	sessionID  string
	createdBy  string
	worldType  worldstate.WorldKind
	title      string
	status     Status
	currentRound int
	createdAt  time.Time
	startedAt  *time.Time
	endedAt    *time.Time
	terminationReason string

	engine     engine.WorldEngine
	gate       *tickdriver.PauseGate
	cancelTick context.CancelFunc
}

func (r *record) summary() Summary {
	return Summary{
		SessionID:         r.sessionID,
		CreatedBy:         r.createdBy,
		WorldType:         r.worldType,
		Title:             r.title,
		Status:            r.status,
		CurrentRound:      r.currentRound,
		CreatedAt:         r.createdAt,
		StartedAt:         r.startedAt,
		EndedAt:           r.endedAt,
		TerminationReason: r.terminationReason,
	}
}

// Driver starts a per-session tick driver when a session transitions to
// running, and must stop cleanly (cancelling in-flight LLM calls and
// discarding their results, spec §4.8/§5) when ctx is cancelled.
type Driver interface {
	Run(ctx context.Context, sessionID string, worldType worldstate.WorldKind, eng engine.WorldEngine, gate *tickdriver.PauseGate)
}

// Manager implements the SessionManager (spec §4.7). It owns the
// session table; engine construction is delegated to the per-kind
// engine packages, and its tick driver is injected through the Driver
// interface; this package imports pkg/tickdriver only for PauseGate.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*record

	cfg    *config.Config
	log    eventlog.Store
	narr   *narrator.Narrator
	store  *sessionstore.Store
	source rng.Source
	driver Driver
}

// New builds a Manager. store may be nil, in which case session
// summaries are not persisted (spec §6 Persisted state: the core's own
// session table does not outlive the process either way).
func New(cfg *config.Config, log eventlog.Store, narr *narrator.Narrator, store *sessionstore.Store, source rng.Source, driver Driver) *Manager {
	return &Manager{
		sessions: make(map[string]*record),
		cfg:      cfg,
		log:      log,
		narr:     narr,
		store:    store,
		source:   source,
		driver:   driver,
	}
}

// Create validates params, instantiates the appropriate engine, and
// registers the session with status=pending (spec §4.7 create).
func (m *Manager) Create(ctx context.Context, p CreateParams) (Summary, error) {
	if p.CreatedBy == "" {
		return Summary{}, services.NewValidationError("createdBy", "must not be empty")
	}
	if len(p.Agents) == 0 {
		return Summary{}, services.NewValidationError("agents", "must not be empty")
	}

	sessionID := uuid.New().String()
	eng, err := m.buildEngine(sessionID, p)
	if err != nil {
		return Summary{}, err
	}

	now := time.Now()
	r := &record{
		sessionID: sessionID,
		createdBy: p.CreatedBy,
		worldType: p.WorldType,
		title:     p.Title,
		status:    StatusPending,
		createdAt: now,
		engine:    eng,
	}

	m.mu.Lock()
	m.sessions[r.sessionID] = r
	m.mu.Unlock()

	m.persist(ctx, r)
	return r.summary(), nil
}

func (m *Manager) buildEngine(sessionID string, p CreateParams) (engine.WorldEngine, error) {
	worldID := uuid.New().String()

	switch p.WorldType {
	case worldstate.KindDebate:
		dp := p.Debate
		if dp == nil {
			return nil, services.NewValidationError("debate", "required for worldType=debate")
		}
		return enginedebate.New(sessionID, worldID, p.Topic, dp.Alignment, dp.Flow, p.Agents, m.cfg.Debate, m.log, m.narr), nil

	case worldstate.KindGame:
		gp := p.Game
		if gp == nil {
			return nil, services.NewValidationError("game", "required for worldType=game")
		}
		return enginegame.New(sessionID, worldID, gp.TurnOrder, gp.MaxTurns, gp.StartHP, gp.StartingHands, m.cfg.Game, m.source, m.log, m.narr), nil

	case worldstate.KindSociety:
		sp := p.Society
		if sp == nil {
			return nil, services.NewValidationError("society", "required for worldType=society")
		}
		return enginesociety.New(sessionID, worldID, sp.Agents, sp.StartResources, sp.RegenRate, sp.MaxTicks, m.cfg.Society, m.source, m.log, m.narr), nil

	case worldstate.KindLogic:
		lp := p.Logic
		if lp == nil {
			return nil, services.NewValidationError("logic", "required for worldType=logic")
		}
		return enginelogic.New(sessionID, worldID, lp.ProblemID, p.Topic, lp.Hypotheses, lp.Goals, p.Agents, lp.MaxRounds, m.cfg.Logic, m.log, m.narr), nil

	default:
		return nil, services.NewValidationError("worldType", fmt.Sprintf("unsupported world kind %q", p.WorldType))
	}
}

// Start moves a pending session to running and launches its tick driver.
func (m *Manager) Start(ctx context.Context, sessionID string) error {
	r, err := m.get(sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.canTransitionTo(StatusRunning) {
		return services.ErrInvalidState
	}

	driverCtx, cancel := context.WithCancel(context.Background())
	r.cancelTick = cancel
	r.gate = tickdriver.NewPauseGate()
	now := time.Now()
	r.startedAt = &now
	r.status = StatusRunning
	m.persist(ctx, r)

	if m.driver != nil {
		go m.driver.Run(driverCtx, sessionID, r.worldType, r.engine, r.gate)
	}
	return nil
}

// Pause moves a running session to paused; the driver parks until resumed.
func (m *Manager) Pause(ctx context.Context, sessionID string) error {
	r, err := m.get(sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.status.canTransitionTo(StatusPaused) {
		return services.ErrInvalidState
	}
	r.status = StatusPaused
	if r.gate != nil {
		r.gate.Pause()
	}
	m.persist(ctx, r)
	return nil
}

// Resume moves a paused session back to running.
func (m *Manager) Resume(ctx context.Context, sessionID string) error {
	r, err := m.get(sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusPaused {
		return services.ErrInvalidState
	}
	r.status = StatusRunning
	if r.gate != nil {
		r.gate.Resume()
	}
	m.persist(ctx, r)
	return nil
}

// End terminates a session unconditionally (from any non-terminal
// status) and stops its driver. Idempotent: ending an already-ended or
// already-failed session is a no-op (spec §5 "end is idempotent").
func (m *Manager) End(ctx context.Context, sessionID, reason string) error {
	r, err := m.get(sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusEnded || r.status == StatusFailed {
		return nil
	}

	if r.cancelTick != nil {
		r.cancelTick()
	}
	now := time.Now()
	r.endedAt = &now
	r.status = StatusEnded
	r.terminationReason = reason
	m.persist(ctx, r)
	return nil
}

// Fail marks a session failed (spec §7 "log append failure" path):
// the driver has already halted; this only updates bookkeeping.
func (m *Manager) Fail(ctx context.Context, sessionID, reason string) error {
	r, err := m.get(sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusEnded || r.status == StatusFailed {
		return nil
	}
	now := time.Now()
	r.endedAt = &now
	r.status = StatusFailed
	r.terminationReason = reason
	m.persist(ctx, r)
	return nil
}

// Delete removes a session from the table. Running sessions must be
// ended first (spec §4.7 delete: "if not running").
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	r, err := m.get(sessionID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	running := r.status == StatusRunning || r.status == StatusPaused
	r.mu.Unlock()
	if running {
		return services.ErrInvalidState
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx, sessionID); err != nil && err != services.ErrNotFound {
			return err
		}
	}
	_ = m.log.Clear(ctx, sessionID)
	return nil
}

// Get returns a session's public summary.
func (m *Manager) Get(sessionID string) (Summary, error) {
	r, err := m.get(sessionID)
	if err != nil {
		return Summary{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary(), nil
}

// GetState returns the session's live world state snapshot.
func (m *Manager) GetState(sessionID string) (any, error) {
	r, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return r.engine.GetWorldState(), nil
}

// GetEngine returns the session's engine, for callers (the tick driver,
// HTTP handlers serving getEvents) that need direct access.
func (m *Manager) GetEngine(sessionID string) (engine.WorldEngine, error) {
	r, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return r.engine, nil
}

// ListByUser returns every session summary created by userID.
func (m *Manager) ListByUser(userID string) []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Summary
	for _, r := range m.sessions {
		r.mu.Lock()
		if r.createdBy == userID {
			out = append(out, r.summary())
		}
		r.mu.Unlock()
	}
	return out
}

// SessionIDs returns every session ID currently known to the manager,
// in no particular order. Used by the retention sweep to walk each
// session's event log.
func (m *Manager) SessionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}

// PruneEnded deletes every ended or failed session whose EndedAt is
// older than maxAge, dropping its event log with it (spec §6 Persisted
// state names the session table as a convenience projection, not a
// durable audit log — old terminal sessions do not need to stay
// resident). Returns the number of sessions removed.
func (m *Manager) PruneEnded(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	var stale []string
	m.mu.RLock()
	for id, r := range m.sessions {
		r.mu.Lock()
		terminal := r.status == StatusEnded || r.status == StatusFailed
		endedAt := r.endedAt
		r.mu.Unlock()
		if terminal && endedAt != nil && endedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		_ = m.Delete(ctx, id)
	}
	return len(stale)
}

func (m *Manager) get(sessionID string) (*record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[sessionID]
	if !ok {
		return nil, services.ErrNotFound
	}
	return r, nil
}

// persist upserts the session's summary projection; failures are
// ignored (neither logged nor returned) — the projection is a convenience view, not the source of truth for a
// live session (spec §6 Persisted state).
func (m *Manager) persist(ctx context.Context, r *record) {
	if m.store == nil {
		return
	}
	_ = m.store.Upsert(ctx, sessionstore.Summary{
		SessionID:         r.sessionID,
		WorldType:         string(r.worldType),
		Status:            string(r.status),
		CreatedBy:         r.createdBy,
		CreatedAt:         r.createdAt,
		StartedAt:         r.startedAt,
		EndedAt:           r.endedAt,
		TerminationReason: r.terminationReason,
	})
}

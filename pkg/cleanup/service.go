// Package cleanup provides data retention and cleanup services.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/session"
)

const defaultCleanupInterval = 15 * time.Minute

// Service periodically enforces retention policies:
//   - Deletes ended/failed sessions older than SessionRetentionHours
//   - Trims each remaining session's event log down to EventLogKeepCount
//
// All operations are idempotent and safe to run repeatedly.
type Service struct {
	cfg      config.RetentionConfig
	sessions *session.Manager
	log      eventlog.Store

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg config.RetentionConfig, sessions *session.Manager, log eventlog.Store) *Service {
	return &Service{
		cfg:      cfg,
		sessions: sessions,
		log:      log,
	}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"session_retention_hours", s.cfg.SessionRetentionHours,
		"event_log_keep_count", s.cfg.EventLogKeepCount,
		"interval", s.interval())
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) interval() time.Duration {
	if iv, err := time.ParseDuration(s.cfg.CleanupInterval); err == nil && iv > 0 {
		return iv
	}
	return defaultCleanupInterval
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	s.pruneEndedSessions(ctx)
	s.trimEventLogs(ctx)
}

func (s *Service) pruneEndedSessions(ctx context.Context) {
	maxAge := time.Duration(s.cfg.SessionRetentionHours) * time.Hour
	count := s.sessions.PruneEnded(ctx, maxAge)
	if count > 0 {
		slog.Info("Retention: deleted ended sessions", "count", count)
	}
}

func (s *Service) trimEventLogs(ctx context.Context) {
	for _, sessionID := range s.sessions.SessionIDs() {
		dropped, err := s.log.Prune(ctx, sessionID, s.cfg.EventLogKeepCount)
		if err != nil {
			slog.Error("Retention: event log prune failed", "session_id", sessionID, "error", err)
			continue
		}
		if dropped > 0 {
			slog.Info("Retention: trimmed event log", "session_id", sessionID, "dropped", dropped)
		}
	}
}

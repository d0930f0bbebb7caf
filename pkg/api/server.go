// Package api provides the HTTP/WebSocket surface for the world engine
// (spec §6 External interfaces): session CRUD/lifecycle under
// /api/isolation, event queries, and the /world-engine WebSocket
// namespace.
package api

import (
	"context"
	"net"
	"net/http"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/worldengine/core/pkg/broadcast"
	"github.com/worldengine/core/pkg/config"
	"github.com/worldengine/core/pkg/eventlog"
	"github.com/worldengine/core/pkg/session"
	"github.com/worldengine/core/pkg/tickdriver"
)

// Server is the HTTP/WebSocket API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg        *config.Config
	sessionMgr *session.Manager
	log        eventlog.Store
	conns      *broadcast.ConnectionManager
	actions    *tickdriver.ActionQueue
}

// NewServer builds a Server with Echo v5 and registers every route.
func NewServer(cfg *config.Config, sessionMgr *session.Manager, log eventlog.Store, conns *broadcast.ConnectionManager, actions *tickdriver.ActionQueue) *Server {
	e := echo.New()

	s := &Server{
		echo:       e,
		cfg:        cfg,
		sessionMgr: sessionMgr,
		log:        log,
		conns:      conns,
		actions:    actions,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers every HTTP and WebSocket route (spec §6).
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(2 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)

	iso := s.echo.Group("/api/isolation")
	iso.GET("/sessions", s.listSessionsHandler)
	iso.POST("/sessions", s.createSessionHandler)
	iso.GET("/sessions/:id", s.getSessionHandler)
	iso.POST("/sessions/:id/start", s.startSessionHandler)
	iso.POST("/sessions/:id/pause", s.pauseSessionHandler)
	iso.POST("/sessions/:id/resume", s.resumeSessionHandler)
	iso.POST("/sessions/:id/end", s.endSessionHandler)
	iso.DELETE("/sessions/:id", s.deleteSessionHandler)

	iso.GET("/events/:sessionId", s.getEventsHandler)
	iso.GET("/events/:sessionId/after/:sequence", s.getEventsAfterHandler)
	iso.GET("/events/:sessionId/agent-view", s.getAgentVisibleEventsHandler)

	s.echo.GET("/world-engine", s.wsHandler)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, ok(map[string]string{"status": "healthy"}))
}

// Start starts the HTTP server on the given address and blocks until
// the server stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

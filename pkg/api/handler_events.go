package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"
)

// getEventsHandler handles GET /events/:sessionId?limit=&type=.
func (s *Server) getEventsHandler(c *echo.Context) error {
	sessionID := c.Param("sessionId")
	limit := clampLimit(c.QueryParam("limit"), 50, 100)

	if eventType := c.QueryParam("type"); eventType != "" {
		events, err := s.log.GetByType(c.Request().Context(), sessionID, eventType)
		if err != nil {
			return mapServiceError(err)
		}
		if len(events) > limit {
			events = events[len(events)-limit:]
		}
		return c.JSON(http.StatusOK, ok(events))
	}

	events, err := s.log.GetRecent(c.Request().Context(), sessionID, limit)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(events))
}

// getEventsAfterHandler handles GET /events/:sessionId/after/:sequence?limit=.
func (s *Server) getEventsAfterHandler(c *echo.Context) error {
	sessionID := c.Param("sessionId")
	seq, err := strconv.ParseInt(c.Param("sequence"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "sequence must be an integer")
	}
	limit := clampLimit(c.QueryParam("limit"), 50, 100)

	events, err := s.log.GetAfterSequence(c.Request().Context(), sessionID, seq, limit)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(events))
}

// getAgentVisibleEventsHandler handles GET /events/:sessionId/agent-view?limit=&agentId=.
func (s *Server) getAgentVisibleEventsHandler(c *echo.Context) error {
	sessionID := c.Param("sessionId")
	agentID := c.QueryParam("agentId")
	if agentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "agentId query parameter is required")
	}
	limit := clampLimit(c.QueryParam("limit"), 50, 100)

	events, err := s.log.GetAgentVisible(c.Request().Context(), sessionID, agentID, limit)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(events))
}

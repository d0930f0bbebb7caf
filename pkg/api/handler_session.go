package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"
	"github.com/go-playground/validator/v10"

	"github.com/worldengine/core/pkg/session"
)

var requestValidator = validator.New()

// sessionDetail is the `{…config, state, events, eventCount}` shape GET
// /sessions/:id returns (spec §6 HTTP surface table).
type sessionDetail struct {
	session.Summary
	State      any `json:"state"`
	Events     any `json:"events"`
	EventCount int `json:"eventCount"`
}

func clampLimit(v string, def, max int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// listSessionsHandler handles GET /sessions.
func (s *Server) listSessionsHandler(c *echo.Context) error {
	author := extractAuthor(c)
	return c.JSON(http.StatusOK, ok(s.sessionMgr.ListByUser(author)))
}

// createSessionHandler handles POST /sessions.
func (s *Server) createSessionHandler(c *echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := requestValidator.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	params := session.CreateParams{
		CreatedBy:      extractAuthor(c),
		WorldType:      req.WorldType,
		Title:          req.Title,
		Topic:          req.Topic,
		Scenario:       req.Scenario,
		Agents:         req.Agents,
		MaxRounds:      req.MaxRounds,
		RoundTimeLimit: parseRoundTimeLimit(req.RoundTimeLimit),
		LLMConfig:      req.LLMConfig,
	}
	if req.Debate != nil {
		params.Debate = &session.DebateParams{Alignment: req.Debate.Alignment, Flow: req.Debate.Flow}
	}
	if req.Game != nil {
		params.Game = &session.GameParams{
			TurnOrder:     req.Game.TurnOrder,
			MaxTurns:      req.Game.MaxTurns,
			StartHP:       req.Game.StartHP,
			StartingHands: req.Game.StartingHands,
		}
	}
	if req.Society != nil {
		params.Society = &session.SocietyParams{
			Agents:         req.Society.Agents,
			StartResources: req.Society.StartResources,
			RegenRate:      req.Society.RegenRate,
			MaxTicks:       req.Society.MaxTicks,
		}
	}
	if req.Logic != nil {
		params.Logic = &session.LogicParams{
			ProblemID:  req.Logic.ProblemID,
			Hypotheses: req.Logic.Hypotheses,
			Goals:      req.Logic.Goals,
			MaxRounds:  req.Logic.MaxRounds,
		}
	}

	summary, err := s.sessionMgr.Create(c.Request().Context(), params)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(summary))
}

// getSessionHandler handles GET /sessions/:id?limit=.
func (s *Server) getSessionHandler(c *echo.Context) error {
	sessionID := c.Param("id")
	summary, err := s.sessionMgr.Get(sessionID)
	if err != nil {
		return mapServiceError(err)
	}
	state, err := s.sessionMgr.GetState(sessionID)
	if err != nil {
		return mapServiceError(err)
	}

	limit := clampLimit(c.QueryParam("limit"), 50, 100)
	events, err := s.log.GetRecent(c.Request().Context(), sessionID, limit)
	if err != nil {
		return mapServiceError(err)
	}
	count, err := s.log.Count(c.Request().Context(), sessionID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ok(sessionDetail{
		Summary:    summary,
		State:      state,
		Events:     events,
		EventCount: count,
	}))
}

// startSessionHandler handles POST /sessions/:id/start.
func (s *Server) startSessionHandler(c *echo.Context) error {
	if err := s.sessionMgr.Start(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(nil))
}

// pauseSessionHandler handles POST /sessions/:id/pause.
func (s *Server) pauseSessionHandler(c *echo.Context) error {
	if err := s.sessionMgr.Pause(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(nil))
}

// resumeSessionHandler handles POST /sessions/:id/resume.
func (s *Server) resumeSessionHandler(c *echo.Context) error {
	if err := s.sessionMgr.Resume(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(nil))
}

// endSessionHandler handles POST /sessions/:id/end.
func (s *Server) endSessionHandler(c *echo.Context) error {
	var req endSessionRequest
	_ = c.Bind(&req) // body is optional; a malformed/absent body just means no reason
	if err := s.sessionMgr.End(c.Request().Context(), c.Param("id"), req.Reason); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(nil))
}

// deleteSessionHandler handles DELETE /sessions/:id.
func (s *Server) deleteSessionHandler(c *echo.Context) error {
	if err := s.sessionMgr.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, ok(nil))
}

package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/coder/websocket"
	echo "github.com/labstack/echo/v5"

	"github.com/worldengine/core/pkg/action"
	"github.com/worldengine/core/pkg/broadcast"
	"github.com/worldengine/core/pkg/session"
)

// rpcRequest is a client RPC call on the /world-engine namespace (spec
// §6 WebSocket surface): create_session, join_session, submit_actions,
// start_auto_simulation, get_events. requestId, if present, is echoed
// back on the ack so the client can correlate it.
type rpcRequest struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// rpcAck is the `{success, …}` callback reply to an rpcRequest.
type rpcAck struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// wsHandler upgrades the connection and runs its read loop until it
// closes, dispatching each RPC and acking it on the same connection.
func (s *Server) wsHandler(c *echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return err
	}

	wc := s.conns.Register(c.Request().Context(), conn)
	defer s.conns.Unregister(wc)

	ctx := c.Request().Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return nil
		}

		var req rpcRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.ack(conn, ctx, rpcAck{Success: false, Error: "malformed request"})
			continue
		}
		s.dispatch(ctx, conn, wc, req)
	}
}

func (s *Server) dispatch(ctx context.Context, conn *websocket.Conn, wc *broadcast.Connection, req rpcRequest) {
	switch req.Type {
	case "create_session":
		s.rpcCreateSession(ctx, conn, req)
	case "join_session":
		s.rpcJoinSession(ctx, conn, wc, req)
	case "submit_actions":
		s.rpcSubmitActions(ctx, conn, req)
	case "start_auto_simulation":
		s.rpcStartAutoSimulation(ctx, conn, req)
	case "get_events":
		s.rpcGetEvents(ctx, conn, req)
	default:
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "unknown RPC type"})
	}
}

func (s *Server) rpcCreateSession(ctx context.Context, conn *websocket.Conn, req rpcRequest) {
	var body createSessionRequest
	if err := json.Unmarshal(req.Payload, &body); err != nil {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "malformed payload"})
		return
	}
	params := session.CreateParams{
		CreatedBy: "ws-client",
		WorldType: body.WorldType,
		Title:     body.Title,
		Topic:     body.Topic,
		Scenario:  body.Scenario,
		Agents:    body.Agents,
		MaxRounds: body.MaxRounds,
		LLMConfig: body.LLMConfig,
	}
	if body.Debate != nil {
		params.Debate = &session.DebateParams{Alignment: body.Debate.Alignment, Flow: body.Debate.Flow}
	}
	if body.Game != nil {
		params.Game = &session.GameParams{TurnOrder: body.Game.TurnOrder, MaxTurns: body.Game.MaxTurns, StartHP: body.Game.StartHP, StartingHands: body.Game.StartingHands}
	}
	if body.Society != nil {
		params.Society = &session.SocietyParams{Agents: body.Society.Agents, StartResources: body.Society.StartResources, RegenRate: body.Society.RegenRate, MaxTicks: body.Society.MaxTicks}
	}
	if body.Logic != nil {
		params.Logic = &session.LogicParams{ProblemID: body.Logic.ProblemID, Hypotheses: body.Logic.Hypotheses, Goals: body.Logic.Goals, MaxRounds: body.Logic.MaxRounds}
	}

	summary, err := s.sessionMgr.Create(ctx, params)
	if err != nil {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: err.Error()})
		return
	}
	s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: true, Data: summary})
}

type sessionIDPayload struct {
	SessionID string `json:"sessionId"`
}

// rpcJoinSession places the connection's socket in sessionId's broadcast
// channel (spec §6 "Join places the socket in a per-session channel").
func (s *Server) rpcJoinSession(ctx context.Context, conn *websocket.Conn, wc *broadcast.Connection, req rpcRequest) {
	var body sessionIDPayload
	if err := json.Unmarshal(req.Payload, &body); err != nil || body.SessionID == "" {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "sessionId is required"})
		return
	}
	if _, err := s.sessionMgr.Get(body.SessionID); err != nil {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "session not found"})
		return
	}
	s.conns.Subscribe(wc, body.SessionID)
	s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: true})
}

type submitActionsPayload struct {
	SessionID string          `json:"sessionId"`
	Actions   []action.Action `json:"actions"`
}

// rpcSubmitActions enqueues actions for the session's next driver tick
// (spec §9 open question (iv): whatever is buffered when the driver
// fires wins; late arrivals carry to the next step).
func (s *Server) rpcSubmitActions(ctx context.Context, conn *websocket.Conn, req rpcRequest) {
	var body submitActionsPayload
	if err := json.Unmarshal(req.Payload, &body); err != nil || body.SessionID == "" {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "sessionId is required"})
		return
	}
	s.actions.Submit(body.SessionID, body.Actions)
	s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: true})
}

// rpcStartAutoSimulation starts the session's tick driver, the same as
// POST /sessions/:id/start.
func (s *Server) rpcStartAutoSimulation(ctx context.Context, conn *websocket.Conn, req rpcRequest) {
	var body sessionIDPayload
	if err := json.Unmarshal(req.Payload, &body); err != nil || body.SessionID == "" {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "sessionId is required"})
		return
	}
	if err := s.sessionMgr.Start(ctx, body.SessionID); err != nil {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: err.Error()})
		return
	}
	s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: true})
}

type getEventsPayload struct {
	SessionID string `json:"sessionId"`
	Limit     int    `json:"limit,omitempty"`
}

func (s *Server) rpcGetEvents(ctx context.Context, conn *websocket.Conn, req rpcRequest) {
	var body getEventsPayload
	if err := json.Unmarshal(req.Payload, &body); err != nil || body.SessionID == "" {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: "sessionId is required"})
		return
	}
	limit := body.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	events, err := s.log.GetRecent(ctx, body.SessionID, limit)
	if err != nil {
		s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: false, Error: err.Error()})
		return
	}
	s.ack(conn, ctx, rpcAck{RequestID: req.RequestID, Success: true, Data: events})
}

func (s *Server) ack(conn *websocket.Conn, ctx context.Context, a rpcAck) {
	a.Type = "ack"
	data, err := json.Marshal(a)
	if err != nil {
		slog.Error("marshal rpc ack", "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Warn("write rpc ack", "error", err)
	}
}

// Package broadcast implements the Broadcast boundary (spec §4.9): fan
// out world_event/state_update/simulation_ended messages to every
// WebSocket subscriber of a session, preserving per-session ordering as
// seen by a single subscriber.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// MessageType enumerates the three message kinds the boundary pushes.
type MessageType string

const (
	MessageWorldEvent      MessageType = "world_event"
	MessageStateUpdate     MessageType = "state_update"
	MessageSimulationEnded MessageType = "simulation_ended"
)

// Message is the envelope sent to every subscriber of a session.
type Message struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"sessionId"`
	Payload   interface{} `json:"payload"`
}

// Connection represents one WebSocket client. Like the teacher's
// Connection, subscriptions is only ever touched from the single
// goroutine running the API's WebSocket read loop (through Subscribe,
// Unsubscribe and its deferred Unregister), so it needs no lock of its
// own.
type Connection struct {
	ID            string
	Conn          *websocket.Conn
	subscriptions map[string]bool
	ctx           context.Context
	cancel        context.CancelFunc
}

// ConnectionManager tracks live WebSocket connections and their
// per-session channel subscriptions, and fans out Publish calls to
// every subscriber of a session. One instance is shared process-wide.
type ConnectionManager struct {
	connections map[string]*Connection
	mu          sync.RWMutex

	channels  map[string]map[string]bool // sessionId -> set of connection IDs
	channelMu sync.RWMutex

	// publishMu serializes every Publish on this manager so ordering is
	// preserved even if two goroutines race to push events for the same
	// session.
	publishMu sync.Mutex

	writeTimeout time.Duration
}

// NewConnectionManager builds a ConnectionManager; writeTimeout bounds
// how long a single subscriber's send may block.
func NewConnectionManager(writeTimeout time.Duration) *ConnectionManager {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &ConnectionManager{
		connections:  make(map[string]*Connection),
		channels:     make(map[string]map[string]bool),
		writeTimeout: writeTimeout,
	}
}

// Register adds a freshly-upgraded connection to the tracking table.
func (m *ConnectionManager) Register(ctx context.Context, conn *websocket.Conn) *Connection {
	connCtx, cancel := context.WithCancel(ctx)
	c := &Connection{
		ID:            uuid.New().String(),
		Conn:          conn,
		subscriptions: make(map[string]bool),
		ctx:           connCtx,
		cancel:        cancel,
	}
	m.mu.Lock()
	m.connections[c.ID] = c
	m.mu.Unlock()
	return c
}

// Unregister removes a connection and every subscription it held.
func (m *ConnectionManager) Unregister(c *Connection) {
	for sessionID := range c.subscriptions {
		m.Unsubscribe(c, sessionID)
	}
	m.mu.Lock()
	delete(m.connections, c.ID)
	m.mu.Unlock()
	c.cancel()
}

// Subscribe places c's socket in sessionID's channel (spec §4.9 "join
// places the socket in a per-session channel").
func (m *ConnectionManager) Subscribe(c *Connection, sessionID string) {
	m.channelMu.Lock()
	if _, ok := m.channels[sessionID]; !ok {
		m.channels[sessionID] = make(map[string]bool)
	}
	m.channels[sessionID][c.ID] = true
	m.channelMu.Unlock()
	c.subscriptions[sessionID] = true
}

// Unsubscribe removes c from sessionID's channel ("disconnect removes it").
func (m *ConnectionManager) Unsubscribe(c *Connection, sessionID string) {
	m.channelMu.Lock()
	if subs, ok := m.channels[sessionID]; ok {
		delete(subs, c.ID)
		if len(subs) == 0 {
			delete(m.channels, sessionID)
		}
	}
	m.channelMu.Unlock()
	delete(c.subscriptions, sessionID)
}

// SubscriberCount reports how many connections are subscribed to sessionID.
func (m *ConnectionManager) SubscriberCount(sessionID string) int {
	m.channelMu.RLock()
	defer m.channelMu.RUnlock()
	return len(m.channels[sessionID])
}

// Publish fans msg out to every subscriber of msg.SessionID, serialized
// per call so concurrent publishes for the same session can never be
// interleaved out of order.
func (m *ConnectionManager) Publish(msg Message) {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal broadcast message", "sessionId", msg.SessionID, "error", err)
		return
	}

	m.channelMu.RLock()
	subs := m.channels[msg.SessionID]
	ids := make([]string, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	m.channelMu.RUnlock()
	if len(ids) == 0 {
		return
	}

	m.mu.RLock()
	conns := make([]*Connection, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.connections[id]; ok {
			conns = append(conns, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range conns {
		if err := m.send(c, data); err != nil {
			slog.Warn("broadcast send failed", "connectionId", c.ID, "sessionId", msg.SessionID, "error", err)
		}
	}
}

func (m *ConnectionManager) send(c *Connection, data []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, m.writeTimeout)
	defer cancel()
	return c.Conn.Write(ctx, websocket.MessageText, data)
}

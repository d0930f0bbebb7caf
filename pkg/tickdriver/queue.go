package tickdriver

import "github.com/worldengine/core/pkg/action"

// ActionQueue buffers actions submitted via the submit_actions RPC
// (spec §6 WebSocket surface) until the driver collects them for the
// next step. One queue instance is shared by every session's driver;
// each session gets its own buffered channel on first use.
type ActionQueue struct {
	mu       chan struct{} // binary semaphore guarding sessions map access
	sessions map[string]chan action.Action
}

// NewActionQueue builds an empty queue.
func NewActionQueue() *ActionQueue {
	return &ActionQueue{
		mu:       make(chan struct{}, 1),
		sessions: make(map[string]chan action.Action),
	}
}

func (q *ActionQueue) channel(sessionID string) chan action.Action {
	q.mu <- struct{}{}
	defer func() { <-q.mu }()
	ch, ok := q.sessions[sessionID]
	if !ok {
		ch = make(chan action.Action, 256)
		q.sessions[sessionID] = ch
	}
	return ch
}

// Submit enqueues actions for sessionID's next collection window.
// Actions beyond the channel's capacity are dropped rather than
// blocking the submitter — a slow/never-ticking session must not wedge
// an API request.
func (q *ActionQueue) Submit(sessionID string, actions []action.Action) {
	ch := q.channel(sessionID)
	for _, a := range actions {
		select {
		case ch <- a:
		default:
		}
	}
}

// Drain collects every action currently buffered for sessionID without blocking.
func (q *ActionQueue) Drain(sessionID string) []action.Action {
	ch := q.channel(sessionID)
	var out []action.Action
	for {
		select {
		case a := <-ch:
			out = append(out, a)
		default:
			return out
		}
	}
}

// Close discards sessionID's buffered actions and its channel.
func (q *ActionQueue) Close(sessionID string) {
	q.mu <- struct{}{}
	delete(q.sessions, sessionID)
	<-q.mu
}

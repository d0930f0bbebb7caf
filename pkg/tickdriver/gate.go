package tickdriver

import "sync"

// PauseGate lets SessionManager park a running driver loop on Pause and
// release it on Resume (spec §4.8 step 5), without the driver package
// depending on the session package.
type PauseGate struct {
	mu       sync.Mutex
	paused   bool
	resumeCh chan struct{}
}

// NewPauseGate builds a gate in the running (unpaused) state.
func NewPauseGate() *PauseGate {
	return &PauseGate{resumeCh: make(chan struct{})}
}

// Pause parks the next wait call until Resume is called.
func (g *PauseGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = true
}

// Resume releases any call currently blocked in wait.
func (g *PauseGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.paused = false
	close(g.resumeCh)
	g.resumeCh = make(chan struct{})
}

// wait blocks while the gate is paused, returning early if ctx is done.
func (g *PauseGate) wait(doneCh <-chan struct{}) {
	for {
		g.mu.Lock()
		paused := g.paused
		ch := g.resumeCh
		g.mu.Unlock()
		if !paused {
			return
		}
		select {
		case <-ch:
		case <-doneCh:
			return
		}
	}
}

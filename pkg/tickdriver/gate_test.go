package tickdriver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPauseGateWaitReturnsImmediatelyWhenNotPaused(t *testing.T) {
	g := NewPauseGate()
	done := make(chan struct{})
	go func() {
		g.wait(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait blocked on an unpaused gate")
	}
}

func TestPauseGateResumeReleasesWait(t *testing.T) {
	g := NewPauseGate()
	g.Pause()

	released := make(chan struct{})
	go func() {
		g.wait(nil)
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("wait returned before Resume was called")
	case <-time.After(20 * time.Millisecond):
	}

	g.Resume()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after Resume")
	}
}

func TestPauseGateWaitUnblocksOnDone(t *testing.T) {
	g := NewPauseGate()
	g.Pause()

	doneCh := make(chan struct{})
	released := make(chan struct{})
	go func() {
		g.wait(doneCh)
		close(released)
	}()

	close(doneCh)

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("wait did not return when doneCh closed")
	}
}

func TestPauseGateResumeWithoutPauseIsNoop(t *testing.T) {
	g := NewPauseGate()
	assert.NotPanics(t, g.Resume)
}

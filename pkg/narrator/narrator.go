// Package narrator defines the optional content-generation boundary
// (spec §4.5). A Narrator never mutates world state and every engine
// must run deterministically without one attached.
package narrator

import (
	"context"
	"log/slog"
	"time"
)

// Summary is the already-filtered input handed to a Provider. Engines
// build this from their own state; the provider never sees raw state.
type Summary struct {
	Topic           string
	Phase           string
	CondensedEvents []string
	Participants    []string
	// Format tells the provider which register to respond in: "prose"
	// for Debate/Society, "latex" for Logic.
	Format string
}

// Formats understood by Summary.Format.
const (
	FormatProse = "prose"
	FormatLaTeX = "latex"
)

// Provider is the narrator content-generation contract (spec's
// ILLMProvider). Implementations are assumed thread-safe; the system
// must tolerate a Provider failing or timing out.
type Provider interface {
	Generate(ctx context.Context, summary Summary) (string, error)
}

// Narrator wraps a Provider with a bounded timeout and a
// fail-open policy: a failed or slow call never blocks or fails the
// step that requested it.
type Narrator struct {
	provider Provider
	timeout  time.Duration
}

// New builds a Narrator around provider, bounding each call to timeout.
// A nil provider is valid — every method becomes a no-op.
func New(provider Provider, timeout time.Duration) *Narrator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Narrator{provider: provider, timeout: timeout}
}

// Attached reports whether a Provider is actually wired in.
func (n *Narrator) Attached() bool {
	return n != nil && n.provider != nil
}

// Generate asks the provider for content. ok is false whenever no
// provider is attached, the call errors, or it exceeds the configured
// timeout — callers proceed without content in all three cases.
func (n *Narrator) Generate(ctx context.Context, summary Summary) (content string, ok bool) {
	if !n.Attached() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	out, err := n.provider.Generate(ctx, summary)
	if err != nil {
		slog.Warn("narrator provider failed, proceeding without content", "error", err)
		return "", false
	}
	return out, true
}

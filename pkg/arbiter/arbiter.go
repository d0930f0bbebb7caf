// Package arbiter declares the generic Arbiter contract (spec §4.2)
// implemented once per world kind by the debate, game, society, and
// logic subpackages.
package arbiter

import "github.com/worldengine/core/pkg/action"

// Arbiter chooses which proposed actions may execute this step and the
// order they will be applied in.
type Arbiter[S any] interface {
	ResolveConflicts(actions []action.Action, s *S) []action.Action
}

// Package rules declares the generic RuleEngine contract (spec §4.1)
// implemented once per world kind by the debate, game, society, and
// logic subpackages.
package rules

import "github.com/worldengine/core/pkg/action"

// Engine validates and applies actions against a world kind's state S
// and enforces invariants once per step via EnforceConstraints.
//
// EnforceConstraints returns both the state changes and any events it
// produced (shocks, exits, a declared winner). The kernel appends the
// events to the event log in the order returned; the changes are not
// added to the step's results.
type Engine[S any] interface {
	Validate(a action.Action, s *S) action.ValidationResult
	Apply(a action.Action, s *S) action.ActionResult
	EnforceConstraints(s *S) ([]action.WorldStateChange, []action.WorldEvent)
}

// Package statemachine provides a small finite-state-machine (FSM) table for
// entities whose state lives in a database rather than in process memory.
//
// The package revolves around two minimal interfaces, State and Event. A
// Machine is built once from transitions and never changes afterwards:
//  1. Transition lookup by (from state, event)
//  2. Optional Guard evaluation to accept or reject transitions
//  3. Execution of side-effect Actions during transitions
//
// A Machine does not remember the current state. Fire takes the state the
// caller just loaded and returns the state to persist, so one Machine can be
// shared across goroutines and requests.
//
// # Usage
//
//	const (
//	    Inactive = statemachine.StringState("inactive")
//	    Active   = statemachine.StringState("active")
//	    Confirm  = statemachine.StringEvent("confirm")
//	)
//
//	machine := statemachine.MustNew(
//	    statemachine.WithTransition(Inactive, Active, Confirm),
//	)
//
//	next, err := machine.Fire(ctx, Inactive, Confirm, nil)
//
// # Guards and Actions
//
// Guards veto a transition based on runtime data. When several transitions
// share a (from, event) pair the first one whose guards all pass wins.
// Actions run after guards succeed; an action error aborts the transition and
// Fire returns it wrapped.
//
// # Error Handling
//
// IsNoTransitionAvailableError and IsTransitionRejectedError distinguish
// "transition not defined" from "guard rejected".
package statemachine

package facilitator

import (
	"errors"
	"fmt"
)

// AttemptState is one node in the payment attempt lifecycle.
type AttemptState string

const (
	StateRequested       AttemptState = "REQUESTED"
	StateTransferred     AttemptState = "TRANSFERRED"
	StateVerifiedValid   AttemptState = "VERIFIED_VALID"
	StateVerifiedInvalid AttemptState = "VERIFIED_INVALID"
	StateSettledSuccess  AttemptState = "SETTLED_SUCCESS"
	StateSettledFailed   AttemptState = "SETTLED_FAILED"
)

// ErrInvalidTransition is returned when an attempt is driven through an
// edge the lifecycle does not have.
var ErrInvalidTransition = errors.New("invalid attempt state transition")

// Attempt tracks one payment attempt through its lifecycle:
//
//	REQUESTED -> TRANSFERRED -> VERIFIED_VALID   -> SETTLED_{SUCCESS|FAILED}
//	                         -> VERIFIED_INVALID (terminal)
//
// Settlement is reachable only after a valid verification; an invalid
// verification ends the attempt. The zero Attempt is not usable; start
// with [NewAttempt].
type Attempt struct {
	state AttemptState
}

// NewAttempt returns an attempt in the REQUESTED state.
func NewAttempt() *Attempt {
	return &Attempt{state: StateRequested}
}

// State returns the current lifecycle state.
func (a *Attempt) State() AttemptState {
	return a.state
}

// Transferred records that the ledger transfer executed.
func (a *Attempt) Transferred() error {
	return a.transition(StateRequested, StateTransferred)
}

// Verified records the verification verdict. An invalid verdict moves the
// attempt into its terminal VERIFIED_INVALID state.
func (a *Attempt) Verified(valid bool) error {
	target := StateVerifiedInvalid
	if valid {
		target = StateVerifiedValid
	}
	return a.transition(StateTransferred, target)
}

// Settled records the settlement outcome. Only a validly verified attempt
// can settle.
func (a *Attempt) Settled(success bool) error {
	target := StateSettledFailed
	if success {
		target = StateSettledSuccess
	}
	return a.transition(StateVerifiedValid, target)
}

// Terminal reports whether the attempt can make no further progress.
func (a *Attempt) Terminal() bool {
	switch a.state {
	case StateVerifiedInvalid, StateSettledSuccess, StateSettledFailed:
		return true
	}
	return false
}

func (a *Attempt) transition(from, to AttemptState) error {
	if a.state != from {
		return fmt.Errorf("%w: %s -> %s (current %s)", ErrInvalidTransition, from, to, a.state)
	}
	a.state = to
	return nil
}

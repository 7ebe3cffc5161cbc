package engine

import (
	"errors"
	"fmt"
)

// Rejection taxonomy. Every rejected intent leaves state untouched; the
// service reports the error back to the originating seat only.
var (
	ErrIllegalTurn     = errors.New("not this seat's turn")
	ErrAlreadyPassed   = errors.New("seat has already passed")
	ErrAlreadyPlayed   = errors.New("seat already played to this trick")
	ErrInvalidAmount   = errors.New("bid amount out of range")
	ErrInvalidColor    = errors.New("invalid trump color")
	ErrWrongCount      = errors.New("wrong number of cards")
	ErrNotInHand       = errors.New("card not in hand")
	ErrMustFollowSuit  = errors.New("must follow suit if able")
	ErrUnauthorized    = errors.New("seat is not the bid winner")
	ErrAlreadySelected = errors.New("trump already selected")
	ErrWrongPhase      = errors.New("action not legal in this phase")
)

// wrongPhase wraps ErrWrongPhase with the actual vs. expected phase.
func wrongPhase(got, want Phase) error {
	return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, got, want)
}

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is matched by every *InvalidActionError
	ErrInvalidAction = errors.New("invalid action")

	// ErrConfiguration is matched by every *ConfigurationError
	ErrConfiguration = errors.New("invalid game configuration")

	// ErrGameOver is returned by Step once the game has halted
	ErrGameOver = errors.New("game is over")
)

// InvalidReason explains why an action was rejected
type InvalidReason string

const (
	ReasonNotAwaiting    InvalidReason = "no action is expected"
	ReasonActionRequired InvalidReason = "an action is required"
	ReasonWrongEvent     InvalidReason = "unexpected event name"
	ReasonWrongPlayer    InvalidReason = "player is not on turn"
	ReasonCardOutOfRange InvalidReason = "card index out of range"
)

// InvalidActionError is returned when an action cannot be applied. The game
// does not advance; the caller may resubmit.
type InvalidActionError struct {
	Reason   InvalidReason
	State    State
	Player   string // Player named in the action, if any
	Expected string // Player on turn, if any
	Card     int
	HandSize int
}

func (e *InvalidActionError) Error() string {
	switch e.Reason {
	case ReasonWrongPlayer:
		return fmt.Sprintf("invalid action: %s (got %q, expected %q)", e.Reason, e.Player, e.Expected)
	case ReasonCardOutOfRange:
		return fmt.Sprintf("invalid action: %s (card %d, hand has %d)", e.Reason, e.Card, e.HandSize)
	default:
		return fmt.Sprintf("invalid action: %s (state %s)", e.Reason, e.State)
	}
}

// Is lets errors.Is match ErrInvalidAction
func (e *InvalidActionError) Is(target error) bool {
	return target == ErrInvalidAction
}

// ConfigurationError is returned by New before any transition happens
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid game configuration: %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is match ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvariantViolation is the panic value used when the engine detects an
// impossible state. It always indicates a bug in the engine.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated: %s: %s", e.Invariant, e.Detail)
}

func violate(invariant, format string, args ...any) {
	panic(&InvariantViolation{Invariant: invariant, Detail: fmt.Sprintf(format, args...)})
}

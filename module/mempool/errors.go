package mempool

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("entity not found in memory pool")
	ErrAlreadyExists = errors.New("entity already exists in memory pool")

	// ErrWidening is returned when an interval update would widen the disputed interval.
	ErrWidening = errors.New("interval must not widen")

	// ErrFinished is returned when registering a challenge that was already answered to the end.
	ErrFinished = errors.New("challenge already finished")

	// ErrInvalidTransition is returned when a challenge would move backwards in its state machine.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Package bisection holds the interval arithmetic of the bisection game. It must agree
// bit for bit with the dispute contract, which uses unsigned floor division.
package bisection

import (
	"errors"
	"fmt"

	"github.com/onflow/dispute-client/model/dispute"
)

// ErrInvalidInterval is returned for intervals with idx1 >= idx2.
var ErrInvalidInterval = errors.New("invalid interval")

// Action is the next move of the prover for a disputed interval.
type Action uint8

const (
	// Subdivide means the prover reports the state hash at the midpoint.
	Subdivide Action = iota + 1
	// PostPhases means the interval is a single step and the prover posts the phase states.
	PostPhases
)

func (a Action) String() string {
	switch a {
	case Subdivide:
		return "subdivide"
	case PostPhases:
		return "post_phases"
	default:
		return "unknown"
	}
}

// NextMidpoint returns floor((idx2-idx1)/2) + idx1. For idx1 < idx2 the result satisfies
// idx1 <= mid < idx2 and cannot overflow.
func NextMidpoint(idx1, idx2 uint64) uint64 {
	return (idx2-idx1)/2 + idx1
}

// DecideAction returns PostPhases iff exactly one step is disputed, Subdivide otherwise.
func DecideAction(idx1, idx2 uint64) Action {
	if idx2-idx1 == 1 {
		return PostPhases
	}
	return Subdivide
}

// Decide is the checked variant of DecideAction used when reacting to contract events.
// For Subdivide it also returns the midpoint to report.
func Decide(interval dispute.Interval) (Action, uint64, error) {
	if !interval.Valid() {
		return 0, 0, fmt.Errorf("cannot bisect %s: %w", interval, ErrInvalidInterval)
	}
	action := DecideAction(interval.Idx1, interval.Idx2)
	if action == PostPhases {
		return action, interval.Idx1, nil
	}
	return action, NextMidpoint(interval.Idx1, interval.Idx2), nil
}

// Rounds returns the number of subdivide rounds needed to narrow an interval of the
// given width to a single step, assuming the disagreement is always in the lower half.
func Rounds(width uint64) int {
	rounds := 0
	for width > 1 {
		width = width / 2
		rounds++
	}
	return rounds
}

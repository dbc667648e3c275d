package dispute

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChallengeID is the protocol's opaque identifier of a single dispute.
type ChallengeID [32]byte

func (id ChallengeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first bytes of the identifier for log output.
func (id ChallengeID) Short() string {
	return hex.EncodeToString(id[:4])
}

// Role is the part this process plays in a challenge.
type Role uint8

const (
	RoleProver Role = iota + 1
	RoleChallenger
)

func (r Role) String() string {
	switch r {
	case RoleProver:
		return "prover"
	case RoleChallenger:
		return "challenger"
	default:
		return "unknown"
	}
}

// Kind distinguishes the recursive bisection game from the single-round finality dispute.
type Kind uint8

const (
	KindBisection Kind = iota + 1
	KindFinality
)

func (k Kind) String() string {
	switch k {
	case KindBisection:
		return "bisection"
	case KindFinality:
		return "finality"
	default:
		return "unknown"
	}
}

// State is the position of a challenge in the per-challenge state machine
// Start → Bisecting → PhaseSelection → Judging → Terminal.
type State uint8

const (
	StateStart State = iota
	StateBisecting
	StatePhaseSelection
	StateJudging
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateBisecting:
		return "bisecting"
	case StatePhaseSelection:
		return "phase_selection"
	case StateJudging:
		return "judging"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Interval is the disputed step range [Idx1, Idx2).
type Interval struct {
	Idx1 uint64
	Idx2 uint64
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d,%d)", i.Idx1, i.Idx2)
}

// Valid returns true if the interval is non-empty.
func (i Interval) Valid() bool {
	return i.Idx1 < i.Idx2
}

// Width returns the number of steps in the interval.
func (i Interval) Width() uint64 {
	if !i.Valid() {
		return 0
	}
	return i.Idx2 - i.Idx1
}

// Single returns true if exactly one step is disputed.
func (i Interval) Single() bool {
	return i.Width() == 1
}

// Within returns true if i is contained in outer, i.e. i is outer or a narrowing of it.
func (i Interval) Within(outer Interval) bool {
	return i.Valid() && outer.Idx1 <= i.Idx1 && i.Idx2 <= outer.Idx2
}

// Challenge is the per-dispute context held by the registry.
type Challenge struct {
	ID         ChallengeID
	TaskID     TaskID
	Kind       Kind
	Role       Role
	Prover     common.Address
	Challenger common.Address
	InitHash   common.Hash
	ResultHash common.Hash
	// Size is the interval size parameter announced by the contract when the challenge started.
	Size     uint64
	Interval Interval
	State    State
	// Phase is the phase selected by the challenger, meaningful from StateJudging on.
	Phase Phase
}

// Copy returns a value copy safe to hand out of the registry.
func (c *Challenge) Copy() *Challenge {
	cp := *c
	return &cp
}

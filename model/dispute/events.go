package dispute

import (
	"github.com/ethereum/go-ethereum/common"
)

// Position locates the log an event was decoded from.
type Position struct {
	Block uint64
	Index uint
}

// Before returns true if p precedes other in chain order.
func (p Position) Before(other Position) bool {
	if p.Block != other.Block {
		return p.Block < other.Block
	}
	return p.Index < other.Index
}

// Event is a decoded notification from the dispute contract.
type Event interface {
	// ChallengeID returns the id of the challenge the event belongs to.
	ChallengeID() ChallengeID
	// Position returns the log position of the event.
	Position() Position
	// Name returns the contract event name.
	Name() string
}

// ChallengeStarted is emitted when a bisection challenge against a solution begins.
type ChallengeStarted struct {
	Pos        Position
	ID         ChallengeID
	Prover     common.Address
	Challenger common.Address
	InitHash   common.Hash
	ResultHash common.Hash
	Idx1       uint64
	Idx2       uint64
	Size       uint64
	Timeout    uint64
}

// FinalityChallengeStarted is emitted when the reported step count and final state are disputed.
type FinalityChallengeStarted struct {
	Pos        Position
	ID         ChallengeID
	Prover     common.Address
	Challenger common.Address
	InitHash   common.Hash
	ResultHash common.Hash
	Step       uint64
}

// Queried is emitted when the challenger narrowed the interval and asks for a midpoint state.
type Queried struct {
	Pos  Position
	ID   ChallengeID
	Idx1 uint64
	Idx2 uint64
}

// ErrorPhasesPosted carries the challenger's claimed phase states for a single step.
type ErrorPhasesPosted struct {
	Pos    Position
	ID     ChallengeID
	Idx1   uint64
	Phases PhaseStates
}

// PhaseSelected is emitted when the challenger picked the phase to be judged.
type PhaseSelected struct {
	Pos   Position
	ID    ChallengeID
	Idx1  uint64
	Phase Phase
}

func (e *ChallengeStarted) ChallengeID() ChallengeID         { return e.ID }
func (e *FinalityChallengeStarted) ChallengeID() ChallengeID { return e.ID }
func (e *Queried) ChallengeID() ChallengeID                  { return e.ID }
func (e *ErrorPhasesPosted) ChallengeID() ChallengeID        { return e.ID }
func (e *PhaseSelected) ChallengeID() ChallengeID            { return e.ID }

func (e *ChallengeStarted) Position() Position         { return e.Pos }
func (e *FinalityChallengeStarted) Position() Position { return e.Pos }
func (e *Queried) Position() Position                  { return e.Pos }
func (e *ErrorPhasesPosted) Position() Position        { return e.Pos }
func (e *PhaseSelected) Position() Position            { return e.Pos }

func (e *ChallengeStarted) Name() string         { return "StartChallenge" }
func (e *FinalityChallengeStarted) Name() string { return "StartFinalityChallenge" }
func (e *Queried) Name() string                  { return "Queried" }
func (e *ErrorPhasesPosted) Name() string        { return "PostedErrorPhases" }
func (e *PhaseSelected) Name() string            { return "SelectedPhase" }

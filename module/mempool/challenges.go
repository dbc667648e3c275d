package mempool

import (
	"github.com/onflow/dispute-client/model/dispute"
)

// Challenges holds the challenges this process takes part in, keyed by the
// challenge id. It is safe for concurrent use; operations on different ids
// never contend on per-challenge state. Returned challenges are copies.
type Challenges interface {
	// Register adds a new challenge. Returns ErrAlreadyExists if the id is taken
	// and ErrFinished if the challenge was already finished.
	Register(challenge *dispute.Challenge) error

	// Lookup returns the challenge with the given id, or ErrNotFound.
	Lookup(id dispute.ChallengeID) (*dispute.Challenge, error)

	// BelongsToMe returns true iff a challenge with the id was registered by this process.
	BelongsToMe(id dispute.ChallengeID) bool

	// Narrow replaces the disputed interval. The new interval must lie within the
	// current one; an identical interval is accepted. Returns ErrWidening otherwise.
	Narrow(id dispute.ChallengeID, interval dispute.Interval) (*dispute.Challenge, error)

	// Transition moves the challenge to a later state and records the selected phase.
	// Returns ErrInvalidTransition for backward moves.
	Transition(id dispute.ChallengeID, state dispute.State, phase dispute.Phase) (*dispute.Challenge, error)

	// Evict removes the challenge. A terminal challenge is remembered as finished.
	// Evicting an unknown id is a no-op.
	Evict(id dispute.ChallengeID) error

	// Finished returns true if the challenge was answered to the end and evicted.
	Finished(id dispute.ChallengeID) bool

	// Active returns all registered challenges.
	Active() []*dispute.Challenge

	// Size returns the number of registered challenges.
	Size() uint
}

// Sessions holds the tasks this process is solving, keyed by task id.
type Sessions interface {
	// Add registers or replaces the session of a task.
	Add(session *dispute.Session)

	// ByTask returns the session of the task, if it is being solved by this process.
	ByTask(id dispute.TaskID) (*dispute.Session, bool)

	// Remove forgets the session of a task.
	Remove(id dispute.TaskID)
}

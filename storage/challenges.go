package storage

import (
	"github.com/onflow/dispute-client/model/dispute"
)

// Challenges persists the challenges this node takes part in, so that a
// restarted node can continue answering them.
type Challenges interface {
	// Store inserts or overwrites the challenge.
	Store(challenge *dispute.Challenge) error

	// ByID returns the challenge with the given id.
	// Errors:
	// storage.ErrNotFound if no challenge with the id is stored
	ByID(id dispute.ChallengeID) (*dispute.Challenge, error)

	// Remove deletes the challenge. Removing an unknown challenge is a no-op.
	Remove(id dispute.ChallengeID) error

	// All returns every stored challenge.
	All() ([]*dispute.Challenge, error)
}

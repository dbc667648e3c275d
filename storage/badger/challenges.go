package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/storage"
	"github.com/onflow/dispute-client/storage/badger/operation"
)

// Challenges implements storage.Challenges on top of badger.
type Challenges struct {
	db *badger.DB
}

var _ storage.Challenges = (*Challenges)(nil)

func NewChallenges(db *badger.DB) *Challenges {
	return &Challenges{db: db}
}

func (c *Challenges) Store(challenge *dispute.Challenge) error {
	err := operation.RetryOnConflict(c.db.Update, operation.UpsertChallenge(challenge))
	if err != nil {
		return fmt.Errorf("could not store challenge %x: %w", challenge.ID, err)
	}
	return nil
}

func (c *Challenges) ByID(id dispute.ChallengeID) (*dispute.Challenge, error) {
	var challenge dispute.Challenge
	err := c.db.View(operation.RetrieveChallenge(id, &challenge))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve challenge %x: %w", id, err)
	}
	return &challenge, nil
}

func (c *Challenges) Remove(id dispute.ChallengeID) error {
	err := operation.RetryOnConflict(c.db.Update, operation.RemoveChallenge(id))
	if err != nil {
		return fmt.Errorf("could not remove challenge %x: %w", id, err)
	}
	return nil
}

func (c *Challenges) All() ([]*dispute.Challenge, error) {
	var challenges []*dispute.Challenge
	err := c.db.View(operation.TraverseChallenges(func(challenge *dispute.Challenge) error {
		challenges = append(challenges, challenge)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("could not traverse challenges: %w", err)
	}
	return challenges, nil
}

package pebble

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/storage"
	"github.com/onflow/dispute-client/storage/pebble/operation"
)

// Challenges implements storage.Challenges on top of pebble. Writes update the
// challenge and the id index in one batch.
type Challenges struct {
	mu sync.Mutex // serializes index updates
	db *pebble.DB
}

var _ storage.Challenges = (*Challenges)(nil)

func NewChallenges(db *pebble.DB) *Challenges {
	return &Challenges{db: db}
}

func (c *Challenges) Store(challenge *dispute.Challenge) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []dispute.ChallengeID
	err := operation.RetrieveChallengeIndex(&ids)(c.db)
	if err != nil {
		return fmt.Errorf("could not retrieve challenge index: %w", err)
	}

	batch := c.db.NewBatch()
	defer batch.Close()

	err = operation.InsertChallenge(challenge)(batch)
	if err != nil {
		return fmt.Errorf("could not store challenge %x: %w", challenge.ID, err)
	}
	if !containsID(ids, challenge.ID) {
		err = operation.InsertChallengeIndex(append(ids, challenge.ID))(batch)
		if err != nil {
			return fmt.Errorf("could not update challenge index: %w", err)
		}
	}
	return batch.Commit(pebble.Sync)
}

func (c *Challenges) ByID(id dispute.ChallengeID) (*dispute.Challenge, error) {
	var challenge dispute.Challenge
	err := operation.RetrieveChallenge(id, &challenge)(c.db)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve challenge %x: %w", id, err)
	}
	return &challenge, nil
}

func (c *Challenges) Remove(id dispute.ChallengeID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []dispute.ChallengeID
	err := operation.RetrieveChallengeIndex(&ids)(c.db)
	if err != nil {
		return fmt.Errorf("could not retrieve challenge index: %w", err)
	}

	remaining := make([]dispute.ChallengeID, 0, len(ids))
	for _, other := range ids {
		if other != id {
			remaining = append(remaining, other)
		}
	}

	batch := c.db.NewBatch()
	defer batch.Close()

	err = operation.RemoveChallenge(id)(batch)
	if err != nil {
		return fmt.Errorf("could not remove challenge %x: %w", id, err)
	}
	err = operation.InsertChallengeIndex(remaining)(batch)
	if err != nil {
		return fmt.Errorf("could not update challenge index: %w", err)
	}
	return batch.Commit(pebble.Sync)
}

func (c *Challenges) All() ([]*dispute.Challenge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ids []dispute.ChallengeID
	err := operation.RetrieveChallengeIndex(&ids)(c.db)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve challenge index: %w", err)
	}

	challenges := make([]*dispute.Challenge, 0, len(ids))
	for _, id := range ids {
		challenge, err := c.ByID(id)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}
	return challenges, nil
}

func containsID(ids []dispute.ChallengeID, id dispute.ChallengeID) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}

package inmemory

import (
	"sync"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/storage"
)

// Challenges keeps challenges in memory. Challenges are lost on restart.
type Challenges struct {
	mu         sync.RWMutex
	challenges map[dispute.ChallengeID]*dispute.Challenge
}

var _ storage.Challenges = (*Challenges)(nil)

func NewChallenges() *Challenges {
	return &Challenges{challenges: make(map[dispute.ChallengeID]*dispute.Challenge)}
}

func (c *Challenges) Store(challenge *dispute.Challenge) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.challenges[challenge.ID] = challenge.Copy()
	return nil
}

func (c *Challenges) ByID(id dispute.ChallengeID) (*dispute.Challenge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	challenge, ok := c.challenges[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return challenge.Copy(), nil
}

func (c *Challenges) Remove(id dispute.ChallengeID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.challenges, id)
	return nil
}

func (c *Challenges) All() ([]*dispute.Challenge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]*dispute.Challenge, 0, len(c.challenges))
	for _, challenge := range c.challenges {
		all = append(all, challenge.Copy())
	}
	return all, nil
}

package reactor

import (
	"sync"
)

// checkpoint tracks the blocks of events that were received but not yet
// handled. The checkpoint is the lowest such block, or the latest block seen
// when nothing is pending. Replaying from the checkpoint redelivers every
// unfinished event; events already handled may be delivered again.
type checkpoint struct {
	mu      sync.Mutex
	pending map[uint64]int
	latest  uint64
}

func newCheckpoint(start uint64) *checkpoint {
	return &checkpoint{
		pending: make(map[uint64]int),
		latest:  start,
	}
}

// Add records an event of the given block as pending.
func (c *checkpoint) Add(block uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[block]++
	if block > c.latest {
		c.latest = block
	}
}

// Done records an event of the given block as handled and returns the new checkpoint.
func (c *checkpoint) Done(block uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[block]--
	if c.pending[block] <= 0 {
		delete(c.pending, block)
	}
	return c.value()
}

// Value returns the current checkpoint.
func (c *checkpoint) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value()
}

func (c *checkpoint) value() uint64 {
	lowest := c.latest
	for block := range c.pending {
		if block < lowest {
			lowest = block
		}
	}
	return lowest
}

package reactor

import (
	"sync"

	"github.com/ef-ds/deque"

	"github.com/onflow/dispute-client/model/dispute"
)

// challengeQueues holds one FIFO queue of pending events per challenge. At
// most one drainer processes a queue at any time, which serializes the
// handling of events of the same challenge while distinct challenges
// proceed independently.
type challengeQueues struct {
	mu       sync.Mutex
	queues   map[dispute.ChallengeID]*deque.Deque
	draining map[dispute.ChallengeID]bool
	size     int
	observer func(int)
}

func newChallengeQueues(observer func(int)) *challengeQueues {
	return &challengeQueues{
		queues:   make(map[dispute.ChallengeID]*deque.Deque),
		draining: make(map[dispute.ChallengeID]bool),
		observer: observer,
	}
}

// Push appends the event to the queue of its challenge. It returns true if
// the caller must start a drainer for the queue.
func (q *challengeQueues) Push(ev dispute.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := ev.ChallengeID()
	queue, ok := q.queues[id]
	if !ok {
		queue = deque.New()
		q.queues[id] = queue
	}
	queue.PushBack(ev)
	q.size++
	q.observer(q.size)

	if q.draining[id] {
		return false
	}
	q.draining[id] = true
	return true
}

// Pop removes the next event of the challenge. If the queue is empty, the
// drainer of the challenge is released and false is returned; the next Push
// then requests a new drainer.
func (q *challengeQueues) Pop(id dispute.ChallengeID) (dispute.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, ok := q.queues[id]
	if !ok || queue.Len() == 0 {
		delete(q.queues, id)
		delete(q.draining, id)
		return nil, false
	}
	v, _ := queue.PopFront()
	q.size--
	q.observer(q.size)
	return v.(dispute.Event), true
}

// Len returns the number of queued events across all challenges.
func (q *challengeQueues) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

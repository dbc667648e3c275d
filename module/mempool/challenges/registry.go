package challenges

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/mempool"
	"github.com/onflow/dispute-client/storage"
)

// entry holds one challenge. Its mutex serializes updates of that challenge
// only, so distinct challenges never contend.
type entry struct {
	sync.Mutex
	challenge *dispute.Challenge
	evicted   bool
}

// DefaultFinishedCapacity is the number of finished challenges remembered by default.
const DefaultFinishedCapacity = 4096

// Registry is the in-memory challenge registry, optionally backed by storage
// so that a restarted process resumes the challenges it was answering.
//
// Finished challenges are remembered in a bounded cache. With persistence, the
// terminal record stays stored until the id drops out of the cache.
type Registry struct {
	log      zerolog.Logger
	metrics  module.ChallengeMetrics
	store    storage.Challenges
	capacity int
	finished *lru.Cache[dispute.ChallengeID, struct{}]

	mu      sync.RWMutex // guards the entries map, not the entries
	entries map[dispute.ChallengeID]*entry
}

var _ mempool.Challenges = (*Registry)(nil)

type Option func(*Registry)

// WithFinishedCapacity sets the number of finished challenges remembered.
func WithFinishedCapacity(capacity uint) Option {
	return func(r *Registry) {
		if capacity > 0 {
			r.capacity = int(capacity)
		}
	}
}

// WithPersistence writes every change through to the given storage.
func WithPersistence(store storage.Challenges) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// NewRegistry creates a registry. With persistence configured, all stored
// challenges are loaded.
func NewRegistry(log zerolog.Logger, metrics module.ChallengeMetrics, opts ...Option) (*Registry, error) {
	r := &Registry{
		log:      log.With().Str("module", "challenge_registry").Logger(),
		metrics:  metrics,
		capacity: DefaultFinishedCapacity,
		entries:  make(map[dispute.ChallengeID]*entry),
	}
	for _, apply := range opts {
		apply(r)
	}

	finished, err := lru.NewWithEvict(r.capacity, r.forget)
	if err != nil {
		return nil, fmt.Errorf("could not create finished challenge cache: %w", err)
	}
	r.finished = finished

	if r.store != nil {
		stored, err := r.store.All()
		if err != nil {
			return nil, fmt.Errorf("could not load stored challenges: %w", err)
		}
		for _, challenge := range stored {
			if challenge.State == dispute.StateTerminal {
				r.finished.Add(challenge.ID, struct{}{})
				continue
			}
			r.entries[challenge.ID] = &entry{challenge: challenge}
		}
		r.log.Info().
			Int("challenges", len(r.entries)).
			Int("finished", r.finished.Len()).
			Msg("restored challenges from storage")
	}
	r.metrics.ActiveChallenges(uint(len(r.entries)))
	return r, nil
}

func (r *Registry) Register(challenge *dispute.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[challenge.ID]; ok {
		return fmt.Errorf("challenge %x: %w", challenge.ID, mempool.ErrAlreadyExists)
	}
	if r.finished.Contains(challenge.ID) {
		return fmt.Errorf("challenge %x: %w", challenge.ID, mempool.ErrFinished)
	}
	if !challenge.Interval.Valid() && challenge.Kind == dispute.KindBisection {
		return fmt.Errorf("challenge %x has invalid interval %s", challenge.ID, challenge.Interval)
	}

	cp := challenge.Copy()
	if r.store != nil {
		if err := r.store.Store(cp); err != nil {
			return fmt.Errorf("could not persist challenge %x: %w", challenge.ID, err)
		}
	}
	r.entries[challenge.ID] = &entry{challenge: cp}
	r.metrics.ActiveChallenges(uint(len(r.entries)))
	return nil
}

func (r *Registry) Lookup(id dispute.ChallengeID) (*dispute.Challenge, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	e.Lock()
	defer e.Unlock()
	if e.evicted {
		return nil, fmt.Errorf("challenge %x: %w", id, mempool.ErrNotFound)
	}
	return e.challenge.Copy(), nil
}

func (r *Registry) BelongsToMe(id dispute.ChallengeID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

func (r *Registry) Narrow(id dispute.ChallengeID, interval dispute.Interval) (*dispute.Challenge, error) {
	return r.update(id, func(c *dispute.Challenge) error {
		if !interval.Within(c.Interval) {
			return fmt.Errorf("cannot move %s to %s: %w", c.Interval, interval, mempool.ErrWidening)
		}
		c.Interval = interval
		if c.State < dispute.StateBisecting {
			c.State = dispute.StateBisecting
		}
		return nil
	})
}

func (r *Registry) Transition(id dispute.ChallengeID, state dispute.State, phase dispute.Phase) (*dispute.Challenge, error) {
	return r.update(id, func(c *dispute.Challenge) error {
		if state < c.State {
			return fmt.Errorf("cannot move from %s to %s: %w", c.State, state, mempool.ErrInvalidTransition)
		}
		c.State = state
		c.Phase = phase
		return nil
	})
}

func (r *Registry) Evict(id dispute.ChallengeID) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	size := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	e.Lock()
	e.evicted = true
	terminal := e.challenge.State == dispute.StateTerminal
	e.Unlock()

	r.metrics.ActiveChallenges(uint(size))
	if terminal {
		r.finished.Add(id, struct{}{})
		return nil
	}
	if r.store != nil {
		if err := r.store.Remove(id); err != nil {
			return fmt.Errorf("could not remove persisted challenge %x: %w", id, err)
		}
	}
	return nil
}

func (r *Registry) Finished(id dispute.ChallengeID) bool {
	return r.finished.Contains(id)
}

// forget drops the stored record of a finished challenge leaving the cache.
func (r *Registry) forget(id dispute.ChallengeID, _ struct{}) {
	if r.store == nil {
		return
	}
	err := r.store.Remove(id)
	if err != nil {
		r.log.Warn().Err(err).Hex("challenge_id", id[:]).Msg("could not remove finished challenge")
	}
}

func (r *Registry) Active() []*dispute.Challenge {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	active := make([]*dispute.Challenge, 0, len(entries))
	for _, e := range entries {
		e.Lock()
		if !e.evicted {
			active = append(active, e.challenge.Copy())
		}
		e.Unlock()
	}
	return active
}

func (r *Registry) Size() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint(len(r.entries))
}

func (r *Registry) entry(id dispute.ChallengeID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("challenge %x: %w", id, mempool.ErrNotFound)
	}
	return e, nil
}

// update applies f to a copy of the challenge and commits the copy if f and
// persistence succeed. A failed update leaves the challenge unchanged.
func (r *Registry) update(id dispute.ChallengeID, f func(*dispute.Challenge) error) (*dispute.Challenge, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}

	e.Lock()
	defer e.Unlock()
	if e.evicted {
		return nil, fmt.Errorf("challenge %x: %w", id, mempool.ErrNotFound)
	}

	updated := e.challenge.Copy()
	if err := f(updated); err != nil {
		return nil, err
	}
	if r.store != nil {
		if err := r.store.Store(updated); err != nil {
			return nil, fmt.Errorf("could not persist challenge %x: %w", id, err)
		}
	}
	e.challenge = updated
	return updated.Copy(), nil
}

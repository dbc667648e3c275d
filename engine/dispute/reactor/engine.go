package reactor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/component"
	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/module/mempool"
	"github.com/onflow/dispute-client/module/proofs"
	"github.com/onflow/dispute-client/storage"
)

// Engine reacts to the events of the interactive verification game. A single
// dispatch loop consumes the event stream and queues every event on the queue
// of its challenge. Queues are drained by a worker pool, so that events of one
// challenge are handled strictly in order while different challenges progress
// concurrently. A failed response is logged and never stops the engine.
type Engine struct {
	*component.ComponentManager
	log        zerolog.Logger
	me         common.Address
	events     <-chan dispute.Event
	challenges mempool.Challenges
	sessions   mempool.Sessions
	tasks      module.TaskClient
	disputes   module.DisputeClient
	execution  module.ExecutionEngine
	assembler  *proofs.Assembler
	progress   storage.ConsumerProgress
	metrics    module.ChallengeMetrics
	queues     *challengeQueues
	checkpoint *checkpoint
	pool       *workerpool.WorkerPool
}

var _ component.Component = (*Engine)(nil)

// New creates the reactor engine. Events are consumed from the given channel
// and the handling progress is persisted to progress.
func New(
	log zerolog.Logger,
	config Config,
	events <-chan dispute.Event,
	challenges mempool.Challenges,
	sessions mempool.Sessions,
	tasks module.TaskClient,
	disputes module.DisputeClient,
	execution module.ExecutionEngine,
	progress storage.ConsumerProgress,
	metrics module.ChallengeMetrics,
) (*Engine, error) {
	start, err := progress.ProcessedIndex()
	if err != nil {
		return nil, fmt.Errorf("could not read event checkpoint: %w", err)
	}

	e := &Engine{
		log:        log.With().Str("engine", "dispute_reactor").Logger(),
		me:         config.Me,
		events:     events,
		challenges: challenges,
		sessions:   sessions,
		tasks:      tasks,
		disputes:   disputes,
		execution:  execution,
		assembler:  proofs.NewAssembler(log, execution),
		progress:   progress,
		metrics:    metrics,
		checkpoint: newCheckpoint(start),
		pool:       workerpool.New(int(config.Workers)),
	}
	e.queues = newChallengeQueues(func(size int) {
		metrics.QueuedEvents(uint(size))
	})

	e.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(e.dispatchLoop).
		Build()
	return e, nil
}

// dispatchLoop consumes the event stream until shutdown.
func (e *Engine) dispatchLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()
	defer e.pool.StopWait()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-e.events:
			if !ok {
				e.log.Info().Msg("event stream closed")
				return
			}
			e.dispatch(ctx, ev)
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, ev dispute.Event) {
	e.checkpoint.Add(ev.Position().Block)
	if !e.queues.Push(ev) {
		return
	}
	id := ev.ChallengeID()
	e.pool.Submit(func() {
		e.drain(ctx, id)
	})
}

// drain handles the queued events of one challenge until its queue is empty.
func (e *Engine) drain(ctx context.Context, id dispute.ChallengeID) {
	for {
		ev, ok := e.queues.Pop(id)
		if !ok {
			return
		}
		if ctx.Err() != nil {
			continue
		}
		e.handle(ctx, ev)
		e.done(ev)
	}
}

// done advances the persisted checkpoint once an event was handled.
func (e *Engine) done(ev dispute.Event) {
	block := e.checkpoint.Done(ev.Position().Block)
	err := e.progress.SetProcessedIndex(block)
	if err != nil {
		e.log.Error().Err(err).Uint64("block", block).Msg("could not persist event checkpoint")
		return
	}
	e.metrics.LastProcessedBlock(block)
}

func (e *Engine) handle(ctx context.Context, ev dispute.Event) {
	var err error
	switch ev := ev.(type) {
	case *dispute.ChallengeStarted:
		err = e.onChallengeStarted(ctx, ev)
	case *dispute.FinalityChallengeStarted:
		err = e.onFinalityChallengeStarted(ctx, ev)
	case *dispute.Queried:
		err = e.onQueried(ctx, ev)
	case *dispute.ErrorPhasesPosted:
		err = e.onErrorPhasesPosted(ctx, ev)
	case *dispute.PhaseSelected:
		err = e.onPhaseSelected(ctx, ev)
	default:
		err = fmt.Errorf("unexpected event type %T", ev)
	}
	if err != nil {
		id := ev.ChallengeID()
		e.log.Error().Err(err).
			Hex("challenge_id", id[:]).
			Str("event", ev.Name()).
			Uint64("block", ev.Position().Block).
			Msg("could not handle event")
	}
}

package contracts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module"
	"github.com/onflow/dispute-client/module/component"
	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/module/util"
	"github.com/onflow/dispute-client/storage"
)

// LogFilterer retrieves historic logs and subscribes to new logs of a
// contract. It is satisfied by *bind.BoundContract.
type LogFilterer interface {
	FilterLogs(opts *bind.FilterOpts, name string, query ...[]interface{}) (chan types.Log, event.Subscription, error)
	WatchLogs(opts *bind.WatchOpts, name string, query ...[]interface{}) (chan types.Log, event.Subscription, error)
}

// EventSource streams the decoded events of the interactive contract. On
// start it replays all events from the persisted checkpoint, then it follows
// new events. Events are delivered in chain order and at most once per start.
type EventSource struct {
	*component.ComponentManager
	log      zerolog.Logger
	filterer LogFilterer
	progress storage.ConsumerProgress
	metrics  module.ChallengeMetrics
	events   chan dispute.Event
}

var _ component.Component = (*EventSource)(nil)

// NewEventSource creates an event source. The checkpoint is initialized to
// startBlock unless a checkpoint was persisted before.
func NewEventSource(
	log zerolog.Logger,
	filterer LogFilterer,
	progress storage.ConsumerProgress,
	startBlock uint64,
	metrics module.ChallengeMetrics,
) (*EventSource, error) {
	_, err := progress.InitProcessedIndex(startBlock)
	if err != nil {
		return nil, fmt.Errorf("could not initialize event checkpoint: %w", err)
	}

	s := &EventSource{
		log:      log.With().Str("module", "event_source").Logger(),
		filterer: filterer,
		progress: progress,
		metrics:  metrics,
		events:   make(chan dispute.Event),
	}
	s.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(s.stream).
		Build()
	return s, nil
}

// Events returns the channel decoded events are delivered on.
func (s *EventSource) Events() <-chan dispute.Event {
	return s.events
}

func (s *EventSource) stream(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	checkpoint, err := s.progress.ProcessedIndex()
	if err != nil {
		ctx.Throw(fmt.Errorf("could not read event checkpoint: %w", err))
	}

	// subscribe before replaying so no event between the replay and the
	// subscription is lost
	live := make(chan types.Log, 128)
	subs := make([]event.Subscription, 0, len(Events))
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()
	for _, name := range Events {
		logs, sub, err := s.filterer.WatchLogs(&bind.WatchOpts{Context: ctx}, name)
		if err != nil {
			ctx.Throw(fmt.Errorf("could not subscribe to %s: %w", name, err))
		}
		subs = append(subs, sub)
		go s.forward(ctx, logs, sub, live)
	}

	ready()

	last, ok := s.replay(ctx, checkpoint)
	if !ok {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case l := <-live:
			pos := dispute.Position{Block: l.BlockNumber, Index: l.Index}
			if last != nil && !last.Before(pos) {
				// already delivered by the replay
				continue
			}
			if !s.deliver(ctx, l) {
				return
			}
		}
	}
}

// forward copies logs of one subscription into the merged channel.
func (s *EventSource) forward(ctx irrecoverable.SignalerContext, logs <-chan types.Log, sub event.Subscription, live chan<- types.Log) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-sub.Err():
			if !ok || err == nil {
				return
			}
			ctx.Throw(fmt.Errorf("event subscription failed: %w", err))
		case l := <-logs:
			select {
			case live <- l:
			case <-ctx.Done():
				return
			}
		}
	}
}

// replay delivers all events from the checkpoint block on, in chain order.
// It returns the position of the last delivered event, if any, and false if
// the context was cancelled.
func (s *EventSource) replay(ctx irrecoverable.SignalerContext, checkpoint uint64) (*dispute.Position, bool) {
	var history []types.Log
	for _, name := range Events {
		logs, err := s.filter(ctx, name, checkpoint)
		if err != nil {
			ctx.Throw(fmt.Errorf("could not replay %s events: %w", name, err))
		}
		history = append(history, logs...)
	}
	slices.SortFunc(history, func(a, b types.Log) int {
		pa := dispute.Position{Block: a.BlockNumber, Index: a.Index}
		pb := dispute.Position{Block: b.BlockNumber, Index: b.Index}
		switch {
		case pa.Before(pb):
			return -1
		case pb.Before(pa):
			return 1
		default:
			return 0
		}
	})

	s.log.Info().
		Uint64("checkpoint", checkpoint).
		Int("events", len(history)).
		Msg("replaying contract events")
	progress := util.LogProgress(s.log, "replaying contract events", uint64(len(history)))

	var last *dispute.Position
	for _, l := range history {
		if !s.deliver(ctx, l) {
			return nil, false
		}
		last = &dispute.Position{Block: l.BlockNumber, Index: l.Index}
		progress(1)
	}
	return last, true
}

// filter collects the logs of one event from the given block to the head.
func (s *EventSource) filter(ctx irrecoverable.SignalerContext, name string, from uint64) ([]types.Log, error) {
	logs, sub, err := s.filterer.FilterLogs(&bind.FilterOpts{Start: from, Context: ctx}, name)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	var collected []types.Log
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case l := <-logs:
			collected = append(collected, l)
		case err, ok := <-sub.Err():
			if ok && err != nil {
				return nil, err
			}
			// the producer is done, pick up what is still buffered
			for {
				select {
				case l := <-logs:
					collected = append(collected, l)
				default:
					return collected, nil
				}
			}
		}
	}
}

// deliver decodes a log and hands the event to the consumer. Logs that
// cannot be decoded are skipped. Returns false if the context was cancelled.
func (s *EventSource) deliver(ctx irrecoverable.SignalerContext, l types.Log) bool {
	if l.Removed {
		s.log.Warn().
			Uint64("block", l.BlockNumber).
			Uint("index", l.Index).
			Msg("ignoring log removed by reorg")
		return true
	}
	ev, err := DecodeEvent(l)
	if errors.Is(err, ErrUnknownEvent) {
		s.log.Debug().Err(err).Msg("ignoring unknown log")
		return true
	}
	if err != nil {
		s.log.Error().Err(err).
			Uint64("block", l.BlockNumber).
			Uint("index", l.Index).
			Msg("could not decode contract event")
		return true
	}

	s.metrics.OnEventReceived(ev.Name())
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

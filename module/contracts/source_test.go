package contracts

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/dispute-client/model/dispute"
	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/module/metrics"
	storage "github.com/onflow/dispute-client/storage/pebble"
	"github.com/onflow/dispute-client/utils/unittest"
)

// fakeFilterer serves historic logs per event and lets the test push live logs.
type fakeFilterer struct {
	mu      sync.Mutex
	history map[string][]types.Log
	from    map[string]uint64
	live    map[string]chan types.Log
	watched chan struct{}
	// subErr fails every live subscription right away
	subErr error
}

func newFakeFilterer() *fakeFilterer {
	return &fakeFilterer{
		history: make(map[string][]types.Log),
		from:    make(map[string]uint64),
		live:    make(map[string]chan types.Log),
		watched: make(chan struct{}, len(Events)),
	}
}

func (f *fakeFilterer) FilterLogs(opts *bind.FilterOpts, name string, query ...[]interface{}) (chan types.Log, event.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from[name] = opts.Start

	var matching []types.Log
	for _, l := range f.history[name] {
		if l.BlockNumber >= opts.Start {
			matching = append(matching, l)
		}
	}
	logs := make(chan types.Log, 128)
	sub := event.NewSubscription(func(quit <-chan struct{}) error {
		for _, l := range matching {
			select {
			case logs <- l:
			case <-quit:
				return nil
			}
		}
		return nil
	})
	return logs, sub, nil
}

func (f *fakeFilterer) WatchLogs(opts *bind.WatchOpts, name string, query ...[]interface{}) (chan types.Log, event.Subscription, error) {
	f.mu.Lock()
	logs := make(chan types.Log)
	f.live[name] = logs
	f.mu.Unlock()
	f.watched <- struct{}{}

	sub := event.NewSubscription(func(quit <-chan struct{}) error {
		if f.subErr != nil {
			return f.subErr
		}
		<-quit
		return nil
	})
	return logs, sub, nil
}

func (f *fakeFilterer) push(name string, l types.Log) {
	f.mu.Lock()
	logs := f.live[name]
	f.mu.Unlock()
	logs <- l
}

func receive(t *testing.T, events <-chan dispute.Event) dispute.Event {
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		require.FailNow(t, "no event received")
		return nil
	}
}

func TestEventSource_ReplayThenFollow(t *testing.T) {
	unittest.RunWithPebbleDB(t, func(db *pebble.DB) {
		id := unittest.ChallengeIDFixture()
		query := func(block uint64, index uint, idx1, idx2 int64) types.Log {
			return eventLog(t, EventQueried, block, index, [32]byte(id), big.NewInt(idx1), big.NewInt(idx2))
		}
		selected := func(block uint64, index uint) types.Log {
			return eventLog(t, EventSelectedPhase, block, index, [32]byte(id), big.NewInt(1), big.NewInt(0))
		}

		filterer := newFakeFilterer()
		filterer.history[EventQueried] = []types.Log{query(3, 0, 0, 64), query(6, 1, 0, 32), query(5, 0, 0, 16)}
		filterer.history[EventSelectedPhase] = []types.Log{selected(6, 0)}

		progress := storage.NewConsumerProgress(db, "events")
		source, err := NewEventSource(unittest.Logger(), filterer, progress, 5, metrics.NewNoopCollector())
		require.NoError(t, err)

		ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
		defer cancel()
		source.Start(ctx)
		unittest.RequireCloseBefore(t, source.Ready(), time.Second, "event source did not start")

		// blocks before the checkpoint are not replayed, the rest arrives in chain order
		first := receive(t, source.Events())
		assert.Equal(t, dispute.Position{Block: 5, Index: 0}, first.Position())
		second := receive(t, source.Events())
		assert.Equal(t, dispute.Position{Block: 6, Index: 0}, second.Position())
		assert.IsType(t, &dispute.PhaseSelected{}, second)
		third := receive(t, source.Events())
		assert.Equal(t, dispute.Position{Block: 6, Index: 1}, third.Position())
		filterer.mu.Lock()
		assert.Equal(t, uint64(5), filterer.from[EventQueried])
		filterer.mu.Unlock()

		// live logs already seen during the replay are dropped
		go func() {
			filterer.push(EventQueried, query(6, 1, 0, 32))
			filterer.push(EventQueried, query(7, 0, 0, 8))
		}()
		live := receive(t, source.Events())
		assert.Equal(t, dispute.Position{Block: 7, Index: 0}, live.Position())
		assert.Equal(t, &dispute.Queried{Pos: live.Position(), ID: id, Idx1: 0, Idx2: 8}, live)

		cancel()
		unittest.RequireCloseBefore(t, source.Done(), time.Second, "event source did not stop")
	})
}

func TestEventSource_ResumesFromPersistedCheckpoint(t *testing.T) {
	unittest.RunWithPebbleDB(t, func(db *pebble.DB) {
		progress := storage.NewConsumerProgress(db, "events")
		_, err := progress.InitProcessedIndex(10)
		require.NoError(t, err)
		require.NoError(t, progress.SetProcessedIndex(42))

		filterer := newFakeFilterer()
		source, err := NewEventSource(unittest.Logger(), filterer, progress, 10, metrics.NewNoopCollector())
		require.NoError(t, err)

		ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
		defer cancel()
		source.Start(ctx)
		unittest.RequireCloseBefore(t, source.Ready(), time.Second, "event source did not start")

		require.Eventually(t, func() bool {
			filterer.mu.Lock()
			defer filterer.mu.Unlock()
			return len(filterer.from) == len(Events)
		}, time.Second, 10*time.Millisecond)
		for _, name := range Events {
			filterer.mu.Lock()
			assert.Equal(t, uint64(42), filterer.from[name])
			filterer.mu.Unlock()
		}

		cancel()
		unittest.RequireCloseBefore(t, source.Done(), time.Second, "event source did not stop")
	})
}

func TestEventSource_SubscriptionFailure(t *testing.T) {
	unittest.RunWithPebbleDB(t, func(db *pebble.DB) {
		filterer := newFakeFilterer()
		filterer.subErr = errors.New("connection reset")

		progress := storage.NewConsumerProgress(db, "events")
		source, err := NewEventSource(unittest.Logger(), filterer, progress, 1, metrics.NewNoopCollector())
		require.NoError(t, err)

		ctx, cancel, thrown := irrecoverable.NewMockSignalerContextExpectError(t, context.Background())
		defer cancel()
		source.Start(ctx)

		select {
		case err := <-thrown:
			assert.ErrorIs(t, err, filterer.subErr)
		case <-time.After(time.Second):
			require.FailNow(t, "subscription failure was not thrown")
		}

		cancel()
		unittest.RequireCloseBefore(t, source.Done(), time.Second, "event source did not stop")
	})
}

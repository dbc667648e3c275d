package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/onflow/dispute-client/config"
	"github.com/onflow/dispute-client/storage"
	badgerstorage "github.com/onflow/dispute-client/storage/badger"
	"github.com/onflow/dispute-client/storage/inmemory"
	pebblestorage "github.com/onflow/dispute-client/storage/pebble"
)

// eventsConsumer names the consumer progress of the contract event stream.
const eventsConsumer = "interactive_events"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// initStorage opens the challenge database with the configured engine.
func initStorage(engine string, dir string) (storage.Challenges, storage.ConsumerProgress, io.Closer, error) {
	if engine == config.StorageMemory {
		return inmemory.NewChallenges(), inmemory.NewConsumerProgress(eventsConsumer), nopCloser{}, nil
	}

	// Pre-create DB path
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create db (path: %s): %w", dir, err)
	}
	existing, err := storage.DetectEngine(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not inspect db (path: %s): %w", dir, err)
	}
	if existing != "" && existing != engine {
		return nil, nil, nil, fmt.Errorf("db (path: %s) was created by %s, not %s", dir, existing, engine)
	}

	switch engine {
	case config.StoragePebble:
		db, err := pebblestorage.Open(dir)
		if err != nil {
			return nil, nil, nil, err
		}
		return pebblestorage.NewChallenges(db), pebblestorage.NewConsumerProgress(db, eventsConsumer), db, nil
	case config.StorageBadger:
		db, err := badgerstorage.Open(dir)
		if err != nil {
			return nil, nil, nil, err
		}
		return badgerstorage.NewChallenges(db), badgerstorage.NewConsumerProgress(db, eventsConsumer), db, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage engine %q", engine)
	}
}

package pebble

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/onflow/dispute-client/storage"
	"github.com/onflow/dispute-client/storage/pebble/operation"
)

type ConsumerProgress struct {
	mu       sync.Mutex
	db       *pebble.DB
	consumer string // to distinguish the consume progress between different consumers
}

var _ storage.ConsumerProgress = (*ConsumerProgress)(nil)

func NewConsumerProgress(db *pebble.DB, consumer string) *ConsumerProgress {
	return &ConsumerProgress{
		db:       db,
		consumer: consumer,
	}
}

func (cp *ConsumerProgress) ProcessedIndex() (uint64, error) {
	var processed uint64
	err := operation.RetrieveProcessedIndex(cp.consumer, &processed)(cp.db)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve processed index: %w", err)
	}
	return processed, nil
}

func (cp *ConsumerProgress) InitProcessedIndex(defaultIndex uint64) (bool, error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	var found bool
	err := operation.ProcessedIndexExists(cp.consumer, &found)(cp.db)
	if err != nil {
		return false, fmt.Errorf("could not check processed index: %w", err)
	}
	// the processed index has been inited before
	if found {
		return false, nil
	}

	err = operation.SetProcessedIndex(cp.consumer, defaultIndex)(cp.db)
	if err != nil {
		return false, fmt.Errorf("could not insert processed index: %w", err)
	}
	return true, nil
}

func (cp *ConsumerProgress) SetProcessedIndex(processed uint64) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	var found bool
	err := operation.ProcessedIndexExists(cp.consumer, &found)(cp.db)
	if err != nil {
		return fmt.Errorf("could not check processed index: %w", err)
	}
	if !found {
		return fmt.Errorf("processed index of %s not initialized: %w", cp.consumer, storage.ErrNotFound)
	}

	err = operation.SetProcessedIndex(cp.consumer, processed)(cp.db)
	if err != nil {
		return fmt.Errorf("could not update processed index: %w", err)
	}
	return nil
}

func (cp *ConsumerProgress) Consumer() string {
	return cp.consumer
}

package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/dispute-client/storage"
	"github.com/onflow/dispute-client/storage/badger/operation"
)

type ConsumerProgress struct {
	db       *badger.DB
	consumer string // to distinguish the consume progress between different consumers
}

var _ storage.ConsumerProgress = (*ConsumerProgress)(nil)

func NewConsumerProgress(db *badger.DB, consumer string) *ConsumerProgress {
	return &ConsumerProgress{
		db:       db,
		consumer: consumer,
	}
}

func (cp *ConsumerProgress) ProcessedIndex() (uint64, error) {
	var processed uint64
	err := cp.db.View(operation.RetrieveProcessedIndex(cp.consumer, &processed))
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve processed index: %w", err)
	}
	return processed, nil
}

func (cp *ConsumerProgress) InitProcessedIndex(defaultIndex uint64) (bool, error) {
	err := operation.RetryOnConflict(cp.db.Update, operation.InsertProcessedIndex(cp.consumer, defaultIndex))
	// the processed index has been inited before
	if errors.Is(err, storage.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not update processed index: %w", err)
	}
	return true, nil
}

func (cp *ConsumerProgress) SetProcessedIndex(processed uint64) error {
	err := operation.RetryOnConflict(cp.db.Update, operation.SetProcessedIndex(cp.consumer, processed))
	if err != nil {
		return fmt.Errorf("could not update processed index: %w", err)
	}
	return nil
}

func (cp *ConsumerProgress) Consumer() string {
	return cp.consumer
}

package inmemory

import (
	"sync"

	"github.com/onflow/dispute-client/storage"
)

// ConsumerProgress keeps the processed index in memory. Progress is lost on restart.
type ConsumerProgress struct {
	mu          sync.Mutex
	consumer    string
	processed   uint64
	initialized bool
}

var _ storage.ConsumerProgress = (*ConsumerProgress)(nil)

func NewConsumerProgress(consumer string) *ConsumerProgress {
	return &ConsumerProgress{consumer: consumer}
}

func (cp *ConsumerProgress) ProcessedIndex() (uint64, error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if !cp.initialized {
		return 0, storage.ErrNotFound
	}
	return cp.processed, nil
}

func (cp *ConsumerProgress) InitProcessedIndex(defaultIndex uint64) (bool, error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.initialized {
		return false, nil
	}
	cp.processed = defaultIndex
	cp.initialized = true
	return true, nil
}

func (cp *ConsumerProgress) SetProcessedIndex(processed uint64) error {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if !cp.initialized {
		return storage.ErrNotFound
	}
	cp.processed = processed
	return nil
}

func (cp *ConsumerProgress) Consumer() string {
	return cp.consumer
}

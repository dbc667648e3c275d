package storage

// ConsumerProgress reads and writes the last processed index of a consumer,
// such as the block height up to which contract events were handled.
type ConsumerProgress interface {
	// ProcessedIndex returns current processed index
	// Errors:
	// storage.ErrNotFound if the consumer has not been initialized
	// No errors are expected during normal operation
	ProcessedIndex() (uint64, error)

	// InitProcessedIndex inserts the default processed index to the storage layer.
	// Returns false if the index was initialized before, in which case it is left unchanged.
	InitProcessedIndex(defaultIndex uint64) (bool, error)

	// SetProcessedIndex updates the processed index in the storage layer.
	// No errors are expected during normal operation.
	SetProcessedIndex(processed uint64) error

	// Consumer returns the consumer's name
	Consumer() string
}

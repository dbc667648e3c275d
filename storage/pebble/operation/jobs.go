package operation

import (
	"github.com/cockroachdb/pebble"
)

func processedIndexKey(consumer string) []byte {
	return makeKey(codeProcessedIndex, []byte(consumer))
}

func RetrieveProcessedIndex(consumer string, index *uint64) func(pebble.Reader) error {
	return retrieve(processedIndexKey(consumer), index)
}

// SetProcessedIndex inserts or overwrites the processed index of the consumer.
func SetProcessedIndex(consumer string, index uint64) func(pebble.Writer) error {
	return insert(processedIndexKey(consumer), index)
}

func ProcessedIndexExists(consumer string, found *bool) func(pebble.Reader) error {
	return exists(processedIndexKey(consumer), found)
}

package operation

import (
	"github.com/dgraph-io/badger/v2"
)

func RetrieveProcessedIndex(consumer string, index *uint64) func(*badger.Txn) error {
	return retrieve(makePrefix(codeProcessedIndex, consumer), index)
}

func InsertProcessedIndex(consumer string, index uint64) func(*badger.Txn) error {
	return insert(makePrefix(codeProcessedIndex, consumer), index)
}

// SetProcessedIndex updates the processed index, which must have been inserted before.
func SetProcessedIndex(consumer string, index uint64) func(*badger.Txn) error {
	return update(makePrefix(codeProcessedIndex, consumer), index)
}

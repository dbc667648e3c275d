package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/storage"
)

// insert encodes the entity with msgpack and stores it under the key.
// It errors with storage.ErrAlreadyExists if the key is taken.
func insert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key: %w", err)
		}
		return set(tx, key, entity)
	}
}

// upsert encodes the entity with msgpack and stores it under the key,
// overwriting any previous value.
func upsert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		return set(tx, key, entity)
	}
}

// update overwrites an existing value. It errors with storage.ErrNotFound
// if the key does not exist yet.
func update(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not check key: %w", err)
		}
		return set(tx, key, entity)
	}
}

func set(tx *badger.Txn, key []byte, entity interface{}) error {
	val, err := msgpack.Marshal(entity)
	if err != nil {
		return irrecoverable.NewExceptionf("could not encode entity: %w", err)
	}
	err = tx.Set(key, val)
	if err != nil {
		return fmt.Errorf("could not store data: %w", err)
	}
	return nil
}

// remove deletes the key. Removing a missing key is a no-op.
func remove(key []byte) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := tx.Delete(key)
		if err != nil {
			return fmt.Errorf("could not delete key: %w", err)
		}
		return nil
	}
}

// retrieve decodes the value under the key into entity, which must be a pointer.
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("could not load data: %w", err)
		}
		return item.Value(func(val []byte) error {
			err := msgpack.Unmarshal(val, entity)
			if err != nil {
				return irrecoverable.NewExceptionf("could not decode entity: %w", err)
			}
			return nil
		})
	}
}

// handleFunc processes the raw value of one key during traversal.
type handleFunc func(key []byte, val []byte) error

// traverse calls handle for every key with the given prefix.
func traverse(prefix []byte, handle handleFunc) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		if len(prefix) == 0 {
			return fmt.Errorf("prefix must not be empty")
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			err := item.Value(func(val []byte) error {
				return handle(key, val)
			})
			if err != nil {
				return fmt.Errorf("could not process key %x: %w", key, err)
			}
		}
		return nil
	}
}

// RetryOnConflict repeats a read-write transaction while badger reports a conflict.
func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}

package operation

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onflow/dispute-client/module/irrecoverable"
	"github.com/onflow/dispute-client/storage"
)

// insert msgpack-encodes val under key, overwriting any previous value.
func insert(key []byte, val interface{}) func(pebble.Writer) error {
	return func(w pebble.Writer) error {
		value, err := msgpack.Marshal(val)
		if err != nil {
			return irrecoverable.NewExceptionf("could not encode %T for key %x: %w", val, key, err)
		}
		err = w.Set(key, value, nil)
		if err != nil {
			return irrecoverable.NewExceptionf("could not write key %x: %w", key, err)
		}
		return nil
	}
}

// retrieve decodes the value under key into target. A missing key yields
// storage.ErrNotFound.
func retrieve(key []byte, target interface{}) func(pebble.Reader) error {
	return func(r pebble.Reader) error {
		value, closer, err := r.Get(key)
		if errors.Is(err, pebble.ErrNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return irrecoverable.NewExceptionf("could not read key %x: %w", key, err)
		}
		defer closer.Close()

		err = msgpack.Unmarshal(value, target)
		if err != nil {
			return irrecoverable.NewExceptionf("could not decode %T from key %x: %w", target, key, err)
		}
		return nil
	}
}

func exists(key []byte, found *bool) func(pebble.Reader) error {
	return func(r pebble.Reader) error {
		_, closer, err := r.Get(key)
		if errors.Is(err, pebble.ErrNotFound) {
			*found = false
			return nil
		}
		if err != nil {
			return irrecoverable.NewExceptionf("could not read key %x: %w", key, err)
		}
		*found = true
		return closer.Close()
	}
}

// remove deletes key. Deleting a missing key is a no-op.
func remove(key []byte) func(pebble.Writer) error {
	return func(w pebble.Writer) error {
		err := w.Delete(key, nil)
		if err != nil {
			return irrecoverable.NewExceptionf("could not delete key %x: %w", key, err)
		}
		return nil
	}
}

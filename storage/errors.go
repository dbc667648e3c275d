package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned by all storage implementations for missing keys.
	// The pebble and badger packages translate pebble.ErrNotFound and
	// badger.ErrKeyNotFound into it.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when inserting a key that is already taken.
	ErrAlreadyExists = errors.New("key already exists")
)

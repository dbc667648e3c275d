package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

// DefaultPebbleOptions returns the options used for the dispute client database.
func DefaultPebbleOptions(cache *pebble.Cache) *pebble.Options {
	return &pebble.Options{
		Cache:        cache,
		MemTableSize: 8 << 20,
	}
}

// Open opens the pebble database in dir, creating it if needed.
func Open(dir string) (*pebble.DB, error) {
	cache := pebble.NewCache(1 << 20)
	defer cache.Unref()
	db, err := pebble.Open(dir, DefaultPebbleOptions(cache))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return db, nil
}

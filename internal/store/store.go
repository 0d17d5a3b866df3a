// Package store implements the persistent key-value adapter backing all
// collections: an opaque mapping from string keys to JSON payloads,
// read and replaced whole.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
// Callers treat it as an empty collection.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is the persistence contract. Implementations must replace the
// full value on Set; there are no partial updates and no transactions
// across keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

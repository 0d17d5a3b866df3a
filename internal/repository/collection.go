// Package repository maps the persisted JSON collections onto the
// key-value store. Every read fetches the authoritative collection and
// every write replaces it whole.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sfs-platform/feedback-api/internal/store"
)

// loadCollection decodes the JSON array stored under key. A missing
// key or a malformed payload yields the empty collection rather than an
// error: the store's de facto contract is default-to-empty. Decoding
// happens into a local slice so a mid-array failure never leaks
// partially decoded elements.
func loadCollection[T any](ctx context.Context, s store.Store, key string) ([]T, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var items []T
	if jsonErr := json.Unmarshal(data, &items); jsonErr != nil {
		return nil, nil
	}
	return items, nil
}

// saveCollection encodes src and replaces the value under key.
func saveCollection(ctx context.Context, s store.Store, key string, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

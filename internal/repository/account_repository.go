package repository

import (
	"context"

	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/store"
)

// AccountRepository provides access to the accounts collection.
type AccountRepository struct {
	store store.Store
	key   string
}

// NewAccountRepository creates an AccountRepository storing accounts
// under "<prefix>_accounts".
func NewAccountRepository(s store.Store, keyPrefix string) *AccountRepository {
	return &AccountRepository{store: s, key: keyPrefix + "_accounts"}
}

// List returns the full accounts collection, empty when unset.
func (r *AccountRepository) List(ctx context.Context) ([]models.Account, error) {
	return loadCollection[models.Account](ctx, r.store, r.key)
}

// Replace persists the given slice as the new authoritative collection.
func (r *AccountRepository) Replace(ctx context.Context, accounts []models.Account) error {
	return saveCollection(ctx, r.store, r.key, accounts)
}

// NextID returns one past the highest identifier in the collection.
func NextID(ids []int) int {
	next := 1
	for _, id := range ids {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/store"
)

// SessionRepository persists the single session snapshot: the account
// record of the currently authenticated identity, or nothing.
type SessionRepository struct {
	store store.Store
	key   string
}

// NewSessionRepository creates a SessionRepository storing the snapshot
// under "<prefix>_session".
func NewSessionRepository(s store.Store, keyPrefix string) *SessionRepository {
	return &SessionRepository{store: s, key: keyPrefix + "_session"}
}

// Get returns the stored snapshot, or nil when no session exists.
func (r *SessionRepository) Get(ctx context.Context) (*models.Account, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var account models.Account
	if jsonErr := json.Unmarshal(data, &account); jsonErr != nil {
		return nil, nil
	}
	return &account, nil
}

// Set replaces the session snapshot.
func (r *SessionRepository) Set(ctx context.Context, account models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the session snapshot unconditionally.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}

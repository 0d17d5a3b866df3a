package repository

import (
	"context"

	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/store"
)

// FeedbackRepository provides access to the feedback collection.
type FeedbackRepository struct {
	store store.Store
	key   string
}

// NewFeedbackRepository creates a FeedbackRepository storing submissions
// under "<prefix>_feedback".
func NewFeedbackRepository(s store.Store, keyPrefix string) *FeedbackRepository {
	return &FeedbackRepository{store: s, key: keyPrefix + "_feedback"}
}

// List returns the full feedback collection, empty when unset.
func (r *FeedbackRepository) List(ctx context.Context) ([]models.Submission, error) {
	return loadCollection[models.Submission](ctx, r.store, r.key)
}

// Replace persists the given slice as the new authoritative collection.
func (r *FeedbackRepository) Replace(ctx context.Context, submissions []models.Submission) error {
	return saveCollection(ctx, r.store, r.key, submissions)
}

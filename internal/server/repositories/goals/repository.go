package goals

import (
	"context"

	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// Repository persists the single pace-goal row each user owns.
type Repository interface {
	// Get returns common.ErrorNotFound when the user has no goal row yet.
	Get(ctx context.Context, userID string) (*models.GoalRecord, error)
	Create(ctx context.Context, goal *models.GoalRecord) (*models.GoalRecord, error)
	// Upsert writes the whole record keyed by user. Safe to retry.
	Upsert(ctx context.Context, goal *models.GoalRecord) error
}

package settings

import (
	"context"

	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// Repository reads per-user display preferences.
type Repository interface {
	// GetWeekStart returns common.ErrorNotFound when the user never chose one.
	GetWeekStart(ctx context.Context, userID string) (models.WeekStart, error)
}

package shifts

import (
	"context"

	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// Repository reads logged shifts. Writes belong to the shift editor and are
// not exposed here.
type Repository interface {
	// ListByDateRange returns the user's shifts dated from start through end
	// inclusive, ordered by date.
	ListByDateRange(ctx context.Context, userID string, start, end datex.Date) ([]models.Shift, error)
}

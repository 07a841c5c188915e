package shifts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/dbx"
	"github.com/dmitrijs2005/tippace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByDateRange(ctx context.Context, userID string, start, end datex.Date) ([]models.Shift, error) {
	query :=
		`SELECT id, user_id, shift_date, hours::float8, sales::float8, cash_tips::float8, card_tips::float8,
		        tip_out_total::float8, COALESCE(location, ''), COALESCE(array_to_json(tags)::text, '[]'), COALESCE(weather, '')
		 FROM shifts
		 WHERE user_id = $1 AND shift_date BETWEEN $2::date AND $3::date
		 ORDER BY shift_date, created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Shift, 0)

	for rows.Next() {
		var (
			s    models.Shift
			tags string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.Hours, &s.Sales, &s.CashTips, &s.CardTips,
			&s.TipOutTotal, &s.Location, &tags, &s.Weather); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
			return nil, fmt.Errorf("shift %s tags: %w", s.ID, err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/dbx"
	"github.com/dmitrijs2005/tippace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetWeekStart(ctx context.Context, userID string) (models.WeekStart, error) {
	query :=
		`SELECT week_start FROM user_settings
		 WHERE user_id = $1
		 `

	var raw string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return models.ParseWeekStart(raw)
}

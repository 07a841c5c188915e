package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/dbx"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.GoalRecord, error) {
	query :=
		`SELECT id, user_id, pace_type, weekly_goal_cents, monthly_goal_cents,
		        shifts_remaining_weekly, shifts_remaining_monthly, updated_at
		 FROM pace_goals
		 WHERE user_id = $1
		 `

	g := &models.GoalRecord{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&g.ID, &g.UserID, &g.PaceType,
		&g.WeeklyGoalCents, &g.MonthlyGoalCents, &g.ShiftsRemainingWeekly, &g.ShiftsRemainingMonthly, &g.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if !g.PaceType.Valid() {
		g.PaceType = models.PaceMonthly
	}

	return g, nil
}

func (r *PostgresRepository) Create(ctx context.Context, goal *models.GoalRecord) (*models.GoalRecord, error) {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO pace_goals (id, user_id, pace_type, weekly_goal_cents, monthly_goal_cents,
		                         shifts_remaining_weekly, shifts_remaining_monthly)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, goal.ID, goal.UserID, string(goal.PaceType),
		goal.WeeklyGoalCents, goal.MonthlyGoalCents, goal.ShiftsRemainingWeekly, goal.ShiftsRemainingMonthly).
		Scan(&goal.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return goal, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, goal *models.GoalRecord) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO pace_goals (id, user_id, pace_type, weekly_goal_cents, monthly_goal_cents,
		                         shifts_remaining_weekly, shifts_remaining_monthly)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET
		     pace_type = EXCLUDED.pace_type,
		     weekly_goal_cents = EXCLUDED.weekly_goal_cents,
		     monthly_goal_cents = EXCLUDED.monthly_goal_cents,
		     shifts_remaining_weekly = EXCLUDED.shifts_remaining_weekly,
		     shifts_remaining_monthly = EXCLUDED.shifts_remaining_monthly,
		     updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, goal.ID, goal.UserID, string(goal.PaceType),
		goal.WeeklyGoalCents, goal.MonthlyGoalCents, goal.ShiftsRemainingWeekly, goal.ShiftsRemainingMonthly)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

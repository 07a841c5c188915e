package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openGoalsDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:dbx_goals?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(2)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pace_goals (user_id TEXT PRIMARY KEY, goal_cents INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM pace_goals`)
	require.NoError(t, err)

	return db
}

func goalCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pace_goals`).Scan(&n))
	return n
}

func insertGoal(ctx context.Context, tx DBTX, userID string, cents int64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO pace_goals(user_id, goal_cents) VALUES (?, ?)`, userID, cents)
	return err
}

func TestWithTx(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(ctx context.Context, tx DBTX) error
		wantErr bool
		want    int
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertGoal(ctx, tx, "u1", 50000); err != nil {
					return err
				}
				return insertGoal(ctx, tx, "u2", 120000)
			},
			want: 2,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertGoal(ctx, tx, "u1", 50000); err != nil {
					return err
				}
				return errors.New("upsert rejected")
			},
			wantErr: true,
			want:    0,
		},
		{
			name: "rollback on duplicate key",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertGoal(ctx, tx, "u1", 1); err != nil {
					return err
				}
				return insertGoal(ctx, tx, "u1", 2)
			},
			wantErr: true,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openGoalsDB(t)

			err := WithTx(context.Background(), db, nil, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, goalCount(t, db))
		})
	}
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openGoalsDB(t)

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insertGoal(ctx, tx, "u1", 100))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, goalCount(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openGoalsDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	assert.Error(t, err)
}

func TestWithSnapshot(t *testing.T) {
	t.Run("commits after reads", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT goal_cents FROM pace_goals`).
			WillReturnRows(sqlmock.NewRows([]string{"goal_cents"}).AddRow(50000))
		mock.ExpectCommit()

		var cents int64
		err = WithSnapshot(context.Background(), db, func(ctx context.Context, tx DBTX) error {
			return tx.QueryRowContext(ctx, `SELECT goal_cents FROM pace_goals`).Scan(&cents)
		})
		require.NoError(t, err)
		assert.EqualValues(t, 50000, cents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err = WithSnapshot(context.Background(), db, func(ctx context.Context, tx DBTX) error {
			var n int
			return tx.QueryRowContext(ctx, `SELECT 1`).Scan(&n)
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

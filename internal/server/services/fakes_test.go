package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/dbx"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/goals"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/settings"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/shifts"
)

type fakeShiftsRepo struct {
	shifts  []models.Shift
	err     error
	gotFrom datex.Date
	gotTo   datex.Date
}

func (f *fakeShiftsRepo) ListByDateRange(ctx context.Context, userID string, start, end datex.Date) ([]models.Shift, error) {
	f.gotFrom, f.gotTo = start, end
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Shift
	for _, s := range f.shifts {
		if s.Date.Between(start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeGoalsRepo struct {
	mu      sync.Mutex
	rec     *models.GoalRecord
	getErr  error
	upserts []models.GoalRecord
}

func (f *fakeGoalsRepo) Get(ctx context.Context, userID string) (*models.GoalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.rec == nil {
		return nil, common.ErrorNotFound
	}
	rec := *f.rec
	return &rec, nil
}

func (f *fakeGoalsRepo) Create(ctx context.Context, goal *models.GoalRecord) (*models.GoalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal.ID = "g-created"
	rec := *goal
	f.rec = &rec
	return goal, nil
}

func (f *fakeGoalsRepo) Upsert(ctx context.Context, goal *models.GoalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, *goal)
	rec := *goal
	f.rec = &rec
	return nil
}

func (f *fakeGoalsRepo) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

type fakeSettingsRepo struct {
	ws models.WeekStart
}

func (f fakeSettingsRepo) GetWeekStart(ctx context.Context, userID string) (models.WeekStart, error) {
	if f.ws == "" {
		return "", common.ErrorNotFound
	}
	return f.ws, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	shifts   *fakeShiftsRepo
	goals    *fakeGoalsRepo
	settings fakeSettingsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{shifts: &fakeShiftsRepo{}, goals: &fakeGoalsRepo{}}
}

func (m *fakeRepoManager) Shifts(db dbx.DBTX) shifts.Repository     { return m.shifts }
func (m *fakeRepoManager) Goals(db dbx.DBTX) goals.Repository       { return m.goals }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settings.Repository { return m.settings }

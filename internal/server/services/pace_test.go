package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/dmitrijs2005/tippace/internal/server/config"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaceService(t *testing.T, rm *fakeRepoManager) (*PaceService, *clockwork.FakeClock) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	// Wednesday 2024-03-06.
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC))
	return NewPaceService(nil, rm, cfg, clock, logging.Nop{}), clock
}

func ptr[T any](v T) *T { return &v }

func TestPaceService_View_InitializesGoal(t *testing.T) {
	rm := newFakeRepoManager()
	rm.shifts.shifts = []models.Shift{
		{Date: datex.MustParse("2024-02-10"), CashTips: 50},
		{Date: datex.MustParse("2024-03-02"), CashTips: 80, CardTips: 20},
	}
	svc, _ := newPaceService(t, rm)

	v, err := svc.View(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, models.PaceMonthly, v.PaceType)
	assert.Equal(t, datex.MustParse("2024-03-01"), v.Period.Start)
	assert.Equal(t, datex.MustParse("2024-02-01"), rm.shifts.gotFrom)
	assert.Equal(t, datex.MustParse("2024-03-31"), rm.shifts.gotTo)
	assert.InDelta(t, 100, v.Totals.Net, 1e-9)
	assert.InDelta(t, 50, v.PreviousTotals.Net, 1e-9)
	assert.Equal(t, 26, v.FeasibleMaxShifts)
	assert.True(t, v.Loaded)
	require.NotNil(t, rm.goals.rec)
	assert.Equal(t, "g-created", rm.goals.rec.ID)
}

func TestPaceService_View_ShiftsError(t *testing.T) {
	rm := newFakeRepoManager()
	rm.shifts.err = errors.New("db down")
	svc, _ := newPaceService(t, rm)

	_, err := svc.View(context.Background(), "u1")
	require.Error(t, err)
}

func TestPaceService_View_GoalLoadFailureServesDefaults(t *testing.T) {
	rm := newFakeRepoManager()
	rm.goals.getErr = errors.New("timeout")
	svc, _ := newPaceService(t, rm)

	v, err := svc.View(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.PaceMonthly, v.PaceType)
	assert.Zero(t, v.GoalCents)
}

func TestPaceService_Update(t *testing.T) {
	rm := newFakeRepoManager()
	rm.settings.ws = models.WeekStartMonday
	svc, clock := newPaceService(t, rm)

	res, err := svc.Update(context.Background(), "u1", PaceUpdate{
		PaceType:        ptr(models.PaceWeekly),
		GoalCents:       ptr(int64(50000)),
		ShiftsRemaining: ptr(9),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaceWeekly, res.PaceType)
	assert.Equal(t, int64(50000), res.GoalCents)
	assert.Equal(t, 5, res.PlannedShifts)
	assert.True(t, res.WasClamped)
	assert.Equal(t, datex.MustParse("2024-03-04"), res.Period.Start)

	clock.Advance(600 * time.Millisecond)
	require.Eventually(t, func() bool { return rm.goals.upsertCount() == 1 }, time.Second, 5*time.Millisecond)

	rm.goals.mu.Lock()
	saved := rm.goals.upserts[0]
	rm.goals.mu.Unlock()
	assert.Equal(t, models.PaceWeekly, saved.PaceType)
	assert.Equal(t, int64(50000), saved.WeeklyGoalCents)
	assert.Equal(t, 5, saved.ShiftsRemainingWeekly)
}

func TestPaceService_Update_EditingFlag(t *testing.T) {
	rm := newFakeRepoManager()
	rm.shifts.shifts = []models.Shift{{Date: datex.MustParse("2024-03-05"), CashTips: 120}}
	svc, _ := newPaceService(t, rm)

	res, err := svc.Update(context.Background(), "u1", PaceUpdate{GoalCents: ptr(int64(10000)), EditingGoal: ptr(true)})
	require.NoError(t, err)
	assert.True(t, res.GoalMet)
	assert.False(t, res.Celebrate)

	res, err = svc.Update(context.Background(), "u1", PaceUpdate{EditingGoal: ptr(false)})
	require.NoError(t, err)
	assert.True(t, res.Celebrate)
}

func TestPaceService_Update_InvalidPaceType(t *testing.T) {
	svc, _ := newPaceService(t, newFakeRepoManager())

	_, err := svc.Update(context.Background(), "u1", PaceUpdate{PaceType: ptr(models.PaceType("daily"))})
	assert.ErrorIs(t, err, common.ErrInvalidPaceType)
}

func TestPaceService_FlushAndClose(t *testing.T) {
	rm := newFakeRepoManager()
	svc, _ := newPaceService(t, rm)

	require.NoError(t, svc.Flush(context.Background(), "nobody"))

	_, err := svc.Update(context.Background(), "u1", PaceUpdate{GoalCents: ptr(int64(1000))})
	require.NoError(t, err)
	require.NoError(t, svc.Flush(context.Background(), "u1"))
	assert.Equal(t, 1, rm.goals.upsertCount())

	_, err = svc.Update(context.Background(), "u2", PaceUpdate{GoalCents: ptr(int64(2000))})
	require.NoError(t, err)
	require.NoError(t, svc.Close(context.Background()))
	assert.Equal(t, 2, rm.goals.upsertCount())
}

// Package pace tracks progress toward a weekly or monthly earnings goal.
//
// The pure functions in this package pick the accounting period for a given
// day, cap the user's planned shift count at what the calendar still allows
// and derive the amount needed per remaining shift. Session wraps them with
// the per-user goal record, debounced persistence and goal-met detection.
package pace

import (
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// Period is an accounting window, both bounds inclusive.
type Period struct {
	Start datex.Date `json:"start"`
	End   datex.Date `json:"end"`
}

func (p Period) Contains(d datex.Date) bool {
	return d.Between(p.Start, p.End)
}

// Days is the length of the period in calendar days.
func (p Period) Days() int {
	return datex.DaysBetween(p.Start, p.End) + 1
}

// ComputePeriod returns the week or month that contains today. A week starts
// on the most recent weekStart day at or before today and lasts seven days.
func ComputePeriod(t models.PaceType, today datex.Date, weekStart models.WeekStart) Period {
	if t == models.PaceWeekly {
		offset := (int(today.Weekday()) - int(weekStart.Weekday()) + 7) % 7
		start := today.AddDays(-offset)
		return Period{Start: start, End: start.AddDays(6)}
	}
	return Period{Start: today.FirstOfMonth(), End: today.LastOfMonth()}
}

// PreviousPeriod returns the window right before p: the prior seven days for
// a weekly period, the prior calendar month for a monthly one.
func PreviousPeriod(p Period, t models.PaceType) Period {
	if t == models.PaceWeekly {
		return Period{Start: p.Start.AddDays(-7), End: p.End.AddDays(-7)}
	}
	start := p.Start.FirstOfMonth().AddMonths(-1)
	return Period{Start: start, End: start.LastOfMonth()}
}

// FeasibleMaxShifts counts the days from today through the end of p,
// inclusive, and is 0 once the period is over.
//
// This assumes at most one shift per remaining day. It is a planning cap for
// the shifts-remaining input, not a rule about how often people work.
func FeasibleMaxShifts(p Period, today datex.Date) int {
	if today.After(p.End) {
		return 0
	}
	return datex.DaysBetween(today, p.End) + 1
}

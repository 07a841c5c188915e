package pace

import (
	"github.com/dmitrijs2005/tippace/internal/shiftstats"
)

// GoalTolerance is half a cent. It absorbs float error in summed tips so a
// $100.00 goal reached through many cent entries still counts as met.
const GoalTolerance = 0.005

// Clamp is the outcome of fitting a requested shift count into the period.
type Clamp struct {
	Value int `json:"value"`
	// WasClamped is set only when the request exceeded the feasible maximum.
	// Negative requests are raised to zero silently.
	WasClamped bool `json:"was_clamped"`
}

func ClampPlannedShifts(requested, feasibleMax int) Clamp {
	if feasibleMax < 0 {
		feasibleMax = 0
	}
	c := Clamp{Value: requested, WasClamped: requested > feasibleMax}
	if c.Value > feasibleMax {
		c.Value = feasibleMax
	}
	if c.Value < 0 {
		c.Value = 0
	}
	return c
}

// Metrics are the numbers derived from period totals and the active goal.
type Metrics struct {
	RemainingToGoal float64 `json:"remaining_to_goal"`
	NeededPerShift  float64 `json:"needed_per_shift"`
	ProgressPct     float64 `json:"progress_pct"`
	GoalMet         bool    `json:"goal_met"`
	PeriodOver      bool    `json:"period_over"`
}

// DeriveMetrics expects plannedShifts to be clamped already.
func DeriveMetrics(totals shiftstats.Totals, goalAmount float64, plannedShifts, feasibleMax int) Metrics {
	m := Metrics{PeriodOver: feasibleMax == 0}

	m.RemainingToGoal = max(0, goalAmount-totals.Net)

	if plannedShifts > 0 {
		m.NeededPerShift = m.RemainingToGoal / float64(plannedShifts)
	}

	if goalAmount > 0 {
		m.ProgressPct = min(100, 100*totals.Net/goalAmount)
		m.GoalMet = totals.Net+GoalTolerance >= goalAmount
	}

	return m
}

package models

import (
	"fmt"
	"time"
)

// PaceType selects the accounting period and which goal fields apply.
type PaceType string

const (
	PaceWeekly  PaceType = "weekly"
	PaceMonthly PaceType = "monthly"
)

func (p PaceType) Valid() bool {
	return p == PaceWeekly || p == PaceMonthly
}

func ParsePaceType(s string) (PaceType, error) {
	p := PaceType(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown pace type %q", s)
	}
	return p, nil
}

// GoalRecord is the single pace-goal row kept per user. Weekly and monthly
// values are stored side by side so switching PaceType never loses the other
// type's goal or plan.
type GoalRecord struct {
	ID     string
	UserID string

	PaceType PaceType

	WeeklyGoalCents  int64
	MonthlyGoalCents int64

	ShiftsRemainingWeekly  int
	ShiftsRemainingMonthly int

	UpdatedAt time.Time
}

// NewGoalRecord returns the defaults created on first access.
func NewGoalRecord(userID string) GoalRecord {
	return GoalRecord{UserID: userID, PaceType: PaceMonthly}
}

// GoalCents returns the goal amount of the given type.
func (g GoalRecord) GoalCents(t PaceType) int64 {
	if t == PaceWeekly {
		return g.WeeklyGoalCents
	}
	return g.MonthlyGoalCents
}

// ShiftsRemaining returns the planned shift count of the given type.
func (g GoalRecord) ShiftsRemaining(t PaceType) int {
	if t == PaceWeekly {
		return g.ShiftsRemainingWeekly
	}
	return g.ShiftsRemainingMonthly
}

func (g *GoalRecord) SetGoalCents(t PaceType, cents int64) {
	if cents < 0 {
		cents = 0
	}
	if t == PaceWeekly {
		g.WeeklyGoalCents = cents
	} else {
		g.MonthlyGoalCents = cents
	}
}

func (g *GoalRecord) SetShiftsRemaining(t PaceType, n int) {
	if n < 0 {
		n = 0
	}
	if t == PaceWeekly {
		g.ShiftsRemainingWeekly = n
	} else {
		g.ShiftsRemainingMonthly = n
	}
}

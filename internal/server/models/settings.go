package models

import (
	"fmt"
	"strings"
	"time"
)

// WeekStart is the user's preferred first day of the week.
type WeekStart string

const (
	WeekStartSunday WeekStart = "sunday"
	WeekStartMonday WeekStart = "monday"
)

func ParseWeekStart(s string) (WeekStart, error) {
	switch w := WeekStart(strings.ToLower(strings.TrimSpace(s))); w {
	case WeekStartSunday, WeekStartMonday:
		return w, nil
	default:
		return "", fmt.Errorf("unknown week start %q", s)
	}
}

func (w WeekStart) Weekday() time.Weekday {
	if w == WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

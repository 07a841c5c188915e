// Package shiftstats aggregates shift records into the summary numbers shown
// on the insights screen. Every function is pure: the same input always gives
// the same output, and none of them filter by date unless asked to.
package shiftstats

import (
	"sort"

	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/server/models"
)

// Totals is the summary of a set of shifts.
type Totals struct {
	Count           int      `json:"count"`
	Net             float64  `json:"net"`
	Hours           float64  `json:"hours"`
	Sales           float64  `json:"sales"`
	EffectiveHourly float64  `json:"effective_hourly"`
	TipPercent      *float64 `json:"tip_percent"`
}

func SumNet(records []models.Shift) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Net()
	}
	return sum
}

func SumHours(records []models.Shift) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Hours
	}
	return sum
}

func SumSales(records []models.Shift) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Sales
	}
	return sum
}

// EffectiveHourly is net tips per hour worked, 0 when no hours are logged.
func EffectiveHourly(records []models.Shift) float64 {
	hours := SumHours(records)
	if hours <= 0 {
		return 0
	}
	return SumNet(records) / hours
}

// TipPercent is net tips as a percentage of sales. It returns nil when there
// are no sales to compare against, which is different from 0%.
func TipPercent(records []models.Shift) *float64 {
	sales := SumSales(records)
	if sales <= 0 {
		return nil
	}
	pct := 100 * SumNet(records) / sales
	return &pct
}

func Summarize(records []models.Shift) Totals {
	return Totals{
		Count:           len(records),
		Net:             SumNet(records),
		Hours:           SumHours(records),
		Sales:           SumSales(records),
		EffectiveHourly: EffectiveHourly(records),
		TipPercent:      TipPercent(records),
	}
}

// InRange keeps the records dated within [start, end], inclusive, preserving
// their order.
func InRange(records []models.Shift, start, end datex.Date) []models.Shift {
	out := make([]models.Shift, 0, len(records))
	for _, r := range records {
		if r.Date.Between(start, end) {
			out = append(out, r)
		}
	}
	return out
}

// SortByDate orders records by date, keeping the input order for ties.
func SortByDate(records []models.Shift) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

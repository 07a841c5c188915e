// Package export renders shifts into an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/money"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/dmitrijs2005/tippace/internal/shiftstats"
	"github.com/xuri/excelize/v2"
)

const (
	ShiftsSheet  = "Shifts"
	SummarySheet = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var shiftHeader = []any{"Date", "Hours", "Sales", "Cash tips", "Card tips", "Tip-out", "Net", "Location", "Tags", "Weather"}

// Workbook builds the export file for shifts dated from through to. goal may
// be nil when the user has none.
func Workbook(shifts []models.Shift, from, to datex.Date, goal *models.GoalRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ShiftsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeShifts(f, shifts, bold); err != nil {
		return nil, fmt.Errorf("shifts sheet: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, shifts, from, to, goal, bold); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}

	return f.WriteToBuffer()
}

func writeShifts(f *excelize.File, shifts []models.Shift, headerStyle int) error {
	if err := f.SetSheetRow(ShiftsSheet, "A1", &shiftHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(ShiftsSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, s := range shifts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			s.Date.String(), s.Hours, s.Sales, s.CashTips, s.CardTips, s.TipOutTotal,
			money.CentsToAmount(money.ToCents(s.Net())), s.Location, strings.Join(s.Tags, ", "), s.Weather,
		}
		if err := f.SetSheetRow(ShiftsSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetPanes(ShiftsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, shifts []models.Shift, from, to datex.Date, goal *models.GoalRecord, labelStyle int) error {
	totals := shiftstats.Summarize(shifts)

	tipPercent := "n/a"
	if totals.TipPercent != nil {
		tipPercent = fmt.Sprintf("%.1f%%", *totals.TipPercent)
	}

	rows := [][]any{
		{"From", from.String()},
		{"To", to.String()},
		{"Shifts", totals.Count},
		{"Hours", totals.Hours},
		{"Net tips", money.Format(totals.Net)},
		{"Effective hourly", money.Format(totals.EffectiveHourly)},
		{"Sales", money.Format(totals.Sales)},
		{"Tip percent", tipPercent},
	}
	if goal != nil {
		rows = append(rows,
			[]any{"Pace type", string(goal.PaceType)},
			[]any{"Weekly goal", money.Format(money.CentsToAmount(goal.WeeklyGoalCents))},
			[]any{"Monthly goal", money.Format(money.CentsToAmount(goal.MonthlyGoalCents))},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColStyle(SummarySheet, "A", labelStyle)
}

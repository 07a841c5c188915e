package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tippace/internal/shiftstats"
)

// ShiftSummary is the aggregate of a date range plus its breakdowns.
type ShiftSummary struct {
	From       datex.Date                   `json:"from"`
	To         datex.Date                   `json:"to"`
	Totals     shiftstats.Totals            `json:"totals"`
	ByLocation map[string]shiftstats.Totals `json:"by_location"`
	ByTag      map[string]shiftstats.Totals `json:"by_tag"`
	ByWeather  map[string]shiftstats.Totals `json:"by_weather"`
}

type ShiftService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewShiftService(db *sql.DB, m repomanager.RepositoryManager) *ShiftService {
	return &ShiftService{db: db, repomanager: m}
}

func (s *ShiftService) Summary(ctx context.Context, userID string, from, to datex.Date) (*ShiftSummary, error) {
	if from.After(to) {
		return nil, common.ErrInvalidDateRange
	}

	shifts, err := s.repomanager.Shifts(s.db).ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return &ShiftSummary{
		From:       from,
		To:         to,
		Totals:     shiftstats.Summarize(shifts),
		ByLocation: shiftstats.GroupBy(shifts, shiftstats.ByLocation),
		ByTag:      shiftstats.GroupBy(shifts, shiftstats.ByTag),
		ByWeather:  shiftstats.GroupBy(shifts, shiftstats.ByWeather),
	}, nil
}

// Package services contains server-side business logic. This file implements
// PaceService, which keeps one pace.Session per user and feeds it shifts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/dmitrijs2005/tippace/internal/pace"
	"github.com/dmitrijs2005/tippace/internal/server/config"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/dmitrijs2005/tippace/internal/server/repositories/repomanager"
	"github.com/jonboulle/clockwork"
)

// PaceUpdate carries the optional fields of a pace edit. Nil means unchanged.
type PaceUpdate struct {
	PaceType        *models.PaceType
	GoalCents       *int64
	ShiftsRemaining *int
	EditingGoal     *bool
}

// PaceResult is the view after an edit.
type PaceResult struct {
	pace.View
	WasClamped bool `json:"was_clamped"`
}

type PaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	opts        pace.Options
	logger      logging.Logger

	mu       sync.Mutex
	sessions map[string]*pace.Session
}

func NewPaceService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, clock clockwork.Clock, l logging.Logger) *PaceService {
	return &PaceService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "pace_service"),
		sessions:    make(map[string]*pace.Session),
		opts: pace.Options{
			Clock:            clock,
			Location:         cfg.Location(),
			DebounceInterval: cfg.PersistDebounce,
			PersistTimeout:   cfg.PersistTimeout,
			DefaultWeekStart: cfg.WeekStart(),
			Logger:           l,
		},
	}
}

// session returns the user's session, loading it when needed. A failed load
// has already been logged by the session and is not an error here.
func (s *PaceService) session(ctx context.Context, userID string) *pace.Session {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = pace.NewSession(userID, s.repomanager.Goals(s.db), s.repomanager.Settings(s.db), s.opts)
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	if _, err := sess.LoadOrInitialize(ctx); err != nil {
		s.logger.Warn(ctx, "serving pace with default goal", "user_id", userID, "error", err)
	}
	return sess
}

func (s *PaceService) evaluate(ctx context.Context, sess *pace.Session) (pace.View, error) {
	window := sess.FetchWindow()

	shifts, err := s.repomanager.Shifts(s.db).ListByDateRange(ctx, sess.UserID(), window.Start, window.End)
	if err != nil {
		return pace.View{}, fmt.Errorf("list shifts: %w", err)
	}

	return sess.Evaluate(shifts), nil
}

// View returns the current pace view for the user.
func (s *PaceService) View(ctx context.Context, userID string) (pace.View, error) {
	return s.evaluate(ctx, s.session(ctx, userID))
}

// Update applies the edit in field order: pace type, goal amount, planned
// shifts, editing flag. Writes are debounced by the session.
func (s *PaceService) Update(ctx context.Context, userID string, u PaceUpdate) (*PaceResult, error) {
	sess := s.session(ctx, userID)

	if u.PaceType != nil {
		if err := sess.SetPaceType(*u.PaceType); err != nil {
			return nil, err
		}
	}
	if u.GoalCents != nil {
		sess.SetGoalCents(*u.GoalCents)
	}

	res := &PaceResult{}
	if u.ShiftsRemaining != nil {
		res.WasClamped = sess.SetPlannedShifts(*u.ShiftsRemaining).WasClamped
	}

	if u.EditingGoal != nil {
		if *u.EditingGoal {
			sess.BeginGoalEdit()
		} else {
			sess.EndGoalEdit()
		}
	}

	v, err := s.evaluate(ctx, sess)
	if err != nil {
		return nil, err
	}
	res.View = v

	return res, nil
}

// Flush writes the user's pending goal edit, if any.
func (s *PaceService) Flush(ctx context.Context, userID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.Flush(ctx)
}

// Close flushes and closes every session. Used on shutdown.
func (s *PaceService) Close(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*pace.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := sess.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", sess.UserID(), err))
		}
	}

	s.logger.Info(ctx, "pace sessions closed", "count", len(sessions), "failed", len(errs))
	return errors.Join(errs...)
}

package pace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/datex"
	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/dmitrijs2005/tippace/internal/money"
	"github.com/dmitrijs2005/tippace/internal/server/models"
	"github.com/dmitrijs2005/tippace/internal/shiftstats"
	"github.com/jonboulle/clockwork"
)

// GoalStore is where goal records live. goals.Repository satisfies it.
type GoalStore interface {
	Get(ctx context.Context, userID string) (*models.GoalRecord, error)
	Create(ctx context.Context, goal *models.GoalRecord) (*models.GoalRecord, error)
	Upsert(ctx context.Context, goal *models.GoalRecord) error
}

// WeekStartSource supplies the user's week start preference.
type WeekStartSource interface {
	GetWeekStart(ctx context.Context, userID string) (models.WeekStart, error)
}

const DefaultPersistTimeout = 5 * time.Second

type Options struct {
	Clock            clockwork.Clock
	Location         *time.Location
	DebounceInterval time.Duration
	PersistTimeout   time.Duration
	DefaultWeekStart models.WeekStart
	Logger           logging.Logger
}

func (o *Options) setDefaults() {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.DebounceInterval <= 0 {
		o.DebounceInterval = DefaultDebounceInterval
	}
	if o.PersistTimeout <= 0 {
		o.PersistTimeout = DefaultPersistTimeout
	}
	if o.DefaultWeekStart == "" {
		o.DefaultWeekStart = models.WeekStartSunday
	}
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
}

// View is everything the pace card shows for one evaluation.
type View struct {
	Today     datex.Date       `json:"today"`
	WeekStart models.WeekStart `json:"week_start"`
	PaceType  models.PaceType  `json:"pace_type"`

	Period           Period `json:"period"`
	ComparisonPeriod Period `json:"comparison_period"`

	GoalCents         int64   `json:"goal_cents"`
	GoalAmount        float64 `json:"goal_amount"`
	PlannedShifts     int     `json:"shifts_remaining"`
	FeasibleMaxShifts int     `json:"feasible_max_shifts"`

	WeeklyGoalCents        int64 `json:"weekly_goal_cents"`
	MonthlyGoalCents       int64 `json:"monthly_goal_cents"`
	ShiftsRemainingWeekly  int   `json:"shifts_remaining_weekly"`
	ShiftsRemainingMonthly int   `json:"shifts_remaining_monthly"`

	Totals         shiftstats.Totals `json:"totals"`
	PreviousTotals shiftstats.Totals `json:"previous_totals"`
	Metrics

	// Celebrate is true on the single evaluation where the goal became met.
	Celebrate   bool `json:"celebrate"`
	EditingGoal bool `json:"editing_goal"`
	Loaded      bool `json:"loaded"`
}

// Session holds one user's goal state between requests.
//
// Edits change the in-memory record right away and schedule a debounced
// upsert of the whole record. Nothing is written until the initial load has
// finished; edits made before that are replayed on top of the loaded record.
// Remote failures are logged and never roll back local state.
type Session struct {
	userID   string
	goals    GoalStore
	settings WeekStartSource
	opts     Options
	log      logging.Logger

	debouncer *Debouncer

	// writeMu keeps two upserts of the same record from overlapping.
	writeMu sync.Mutex

	mu          sync.Mutex
	record      models.GoalRecord
	weekStart   models.WeekStart
	editingGoal bool
	celebrator  Celebrator
	closed      bool

	loaded     bool
	loadFailed bool
	loading    chan struct{}
	preload    []func(*models.GoalRecord)

	// editedSinceLoad keeps a retried load from replacing local edits.
	editedSinceLoad bool
}

// NewSession returns an unloaded session with default values. settings may
// be nil, in which case the default week start is used.
func NewSession(userID string, goals GoalStore, settings WeekStartSource, opts Options) *Session {
	opts.setDefaults()

	s := &Session{
		userID:    userID,
		goals:     goals,
		settings:  settings,
		opts:      opts,
		log:       opts.Logger.With("module", "pace", "user_id", userID),
		record:    models.NewGoalRecord(userID),
		weekStart: opts.DefaultWeekStart,
	}
	s.debouncer = NewDebouncer(opts.Clock, opts.DebounceInterval, s.persistInBackground)

	return s
}

func (s *Session) UserID() string { return s.userID }

// LoadOrInitialize fetches the user's goal record, creating it with defaults
// when missing. On failure the error is logged and returned, and the session
// keeps working on in-memory defaults. A later call retries as long as
// nothing was edited in the meantime.
func (s *Session) LoadOrInitialize(ctx context.Context) (models.GoalRecord, error) {
	s.mu.Lock()
	for s.loading != nil {
		wait := s.loading
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return s.Record(), ctx.Err()
		}
		s.mu.Lock()
	}
	if s.loaded && (!s.loadFailed || s.editedSinceLoad) {
		rec := s.record
		s.mu.Unlock()
		return rec, nil
	}
	done := make(chan struct{})
	s.loading = done
	s.mu.Unlock()

	rec, loadErr := s.fetchOrCreate(ctx)
	weekStart := s.fetchWeekStart(ctx)
	today := s.today()

	s.mu.Lock()
	if loadErr == nil {
		s.record = *rec
		for _, edit := range s.preload {
			edit(&s.record)
		}
	}
	dirty := len(s.preload) > 0
	s.preload = nil
	s.weekStart = weekStart
	if s.reclampLocked(today) {
		dirty = true
	}
	s.loaded = true
	s.loadFailed = loadErr != nil
	s.editedSinceLoad = false
	s.loading = nil
	result := s.record
	closed := s.closed
	s.mu.Unlock()
	close(done)

	if dirty && !closed {
		s.debouncer.Trigger()
	}

	return result, loadErr
}

func (s *Session) fetchOrCreate(ctx context.Context) (*models.GoalRecord, error) {
	rec, err := s.goals.Get(ctx, s.userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.log.Error(ctx, "goal load failed", "error", err)
		return nil, fmt.Errorf("load goal: %w", err)
	}

	fresh := models.NewGoalRecord(s.userID)
	rec, err = s.goals.Create(ctx, &fresh)
	if err != nil {
		s.log.Error(ctx, "goal create failed", "error", err)
		return nil, fmt.Errorf("create goal: %w", err)
	}
	s.log.Info(ctx, "goal record created")
	return rec, nil
}

func (s *Session) fetchWeekStart(ctx context.Context) models.WeekStart {
	if s.settings == nil {
		return s.opts.DefaultWeekStart
	}
	ws, err := s.settings.GetWeekStart(ctx, s.userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "week start unavailable, using default", "error", err)
		}
		return s.opts.DefaultWeekStart
	}
	return ws
}

func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Record returns a copy of the in-memory goal record.
func (s *Session) Record() models.GoalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *Session) PaceType() models.PaceType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.PaceType
}

func (s *Session) SetPaceType(t models.PaceType) error {
	if !t.Valid() {
		return common.ErrInvalidPaceType
	}
	if s.PaceType() == t {
		return nil
	}
	s.edit(func(r *models.GoalRecord) { r.PaceType = t })
	return nil
}

// SetGoalCents sets the goal of the active pace type. Negative amounts
// become zero.
func (s *Session) SetGoalCents(cents int64) {
	t := s.PaceType()
	s.edit(func(r *models.GoalRecord) { r.SetGoalCents(t, cents) })
}

// SetPlannedShifts clamps the requested count against the active period and
// stores the result for the active pace type.
func (s *Session) SetPlannedShifts(requested int) Clamp {
	today := s.today()

	s.mu.Lock()
	t := s.record.PaceType
	feasible := FeasibleMaxShifts(ComputePeriod(t, today, s.weekStart), today)
	s.mu.Unlock()

	c := ClampPlannedShifts(requested, feasible)
	s.edit(func(r *models.GoalRecord) { r.SetShiftsRemaining(t, c.Value) })
	return c
}

// BeginGoalEdit marks the goal amount as being typed in. Celebrations are
// held back until EndGoalEdit.
func (s *Session) BeginGoalEdit() {
	s.mu.Lock()
	s.editingGoal = true
	s.mu.Unlock()
}

func (s *Session) EndGoalEdit() {
	s.mu.Lock()
	s.editingGoal = false
	s.mu.Unlock()
}

func (s *Session) edit(fn func(*models.GoalRecord)) {
	s.mu.Lock()
	fn(&s.record)
	if !s.loaded || s.loading != nil {
		s.preload = append(s.preload, fn)
		s.mu.Unlock()
		return
	}
	s.editedSinceLoad = true
	closed := s.closed
	s.mu.Unlock()

	if !closed {
		s.debouncer.Trigger()
	}
}

func (s *Session) today() datex.Date {
	return datex.Today(s.opts.Clock.Now(), s.opts.Location)
}

// CurrentPeriod is the active accounting window as of now.
func (s *Session) CurrentPeriod() Period {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputePeriod(s.record.PaceType, today, s.weekStart)
}

// FetchWindow spans the comparison period through the end of the current
// one, which covers every shift Evaluate looks at.
func (s *Session) FetchWindow() Period {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := ComputePeriod(s.record.PaceType, today, s.weekStart)
	prev := PreviousPeriod(cur, s.record.PaceType)
	return Period{Start: prev.Start, End: cur.End}
}

// reclampLocked fits both planned-shift counts into their own periods as of
// today and reports whether anything changed.
func (s *Session) reclampLocked(today datex.Date) bool {
	changed := false
	for _, t := range []models.PaceType{models.PaceWeekly, models.PaceMonthly} {
		feasible := FeasibleMaxShifts(ComputePeriod(t, today, s.weekStart), today)
		cur := s.record.ShiftsRemaining(t)
		if c := ClampPlannedShifts(cur, feasible); c.Value != cur {
			s.record.SetShiftsRemaining(t, c.Value)
			changed = true
		}
	}
	return changed
}

// Evaluate derives the pace view from records, which may contain shifts
// outside the current period. Plans that no longer fit the calendar are
// reduced first, and such a change is persisted like any edit.
func (s *Session) Evaluate(records []models.Shift) View {
	today := s.today()

	s.mu.Lock()
	changed := s.reclampLocked(today)
	rec := s.record

	period := ComputePeriod(rec.PaceType, today, s.weekStart)
	prev := PreviousPeriod(period, rec.PaceType)
	feasible := FeasibleMaxShifts(period, today)

	totals := shiftstats.Summarize(shiftstats.InRange(records, period.Start, period.End))
	prevTotals := shiftstats.Summarize(shiftstats.InRange(records, prev.Start, prev.End))

	goalCents := rec.GoalCents(rec.PaceType)
	planned := rec.ShiftsRemaining(rec.PaceType)
	goalAmount := money.CentsToAmount(goalCents)
	metrics := DeriveMetrics(totals, goalAmount, planned, feasible)

	celebrate := s.celebrator.Observe(CelebrationKey{
		PaceType:    rec.PaceType,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		GoalCents:   goalCents,
		NetCents:    money.ToCents(totals.Net),
	}, metrics.GoalMet, s.editingGoal)

	v := View{
		Today:                  today,
		WeekStart:              s.weekStart,
		PaceType:               rec.PaceType,
		Period:                 period,
		ComparisonPeriod:       prev,
		GoalCents:              goalCents,
		GoalAmount:             goalAmount,
		PlannedShifts:          planned,
		FeasibleMaxShifts:      feasible,
		WeeklyGoalCents:        rec.WeeklyGoalCents,
		MonthlyGoalCents:       rec.MonthlyGoalCents,
		ShiftsRemainingWeekly:  rec.ShiftsRemainingWeekly,
		ShiftsRemainingMonthly: rec.ShiftsRemainingMonthly,
		Totals:                 totals,
		PreviousTotals:         prevTotals,
		Metrics:                metrics,
		Celebrate:              celebrate,
		EditingGoal:            s.editingGoal,
		Loaded:                 s.loaded,
	}
	persist := changed && s.loaded && s.loading == nil && !s.closed
	s.mu.Unlock()

	if persist {
		s.debouncer.Trigger()
	}
	if celebrate {
		s.log.Info(context.Background(), "goal met", "pace_type", rec.PaceType, "goal_cents", goalCents)
	}

	return v
}

// Pending reports whether an edit is waiting to be written.
func (s *Session) Pending() bool {
	return s.debouncer.Pending()
}

// Flush writes a pending edit now instead of waiting for the quiet period.
func (s *Session) Flush(ctx context.Context) error {
	if !s.debouncer.Stop() {
		return nil
	}
	return s.persist(ctx)
}

// Close flushes a pending edit and stops scheduling new writes. Edits after
// Close only change the in-memory record.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *Session) persistInBackground() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(context.Background(), "goal persist panicked", "panic", r)
		}
	}()
	_ = s.persist(context.Background())
}

// persist upserts the record as it is at call time.
func (s *Session) persist(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	today := s.today()

	s.mu.Lock()
	if !s.loaded || s.loading != nil {
		s.mu.Unlock()
		return nil
	}
	s.reclampLocked(today)
	rec := s.record
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.PersistTimeout)
	defer cancel()

	if err := s.goals.Upsert(ctx, &rec); err != nil {
		s.log.Error(ctx, "goal persist failed", "error", err)
		return fmt.Errorf("persist goal: %w", err)
	}

	s.mu.Lock()
	if s.record.ID == "" {
		s.record.ID = rec.ID
	}
	s.mu.Unlock()

	s.log.Debug(ctx, "goal persisted", "pace_type", rec.PaceType)
	return nil
}

// Package services contains server-side business logic: the attendance
// engine bound to the event store, authentication, and report export.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/logging"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	"github.com/dmitrijs2005/punchclock/internal/server/config"
	"github.com/dmitrijs2005/punchclock/internal/server/metrics"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// DayOverview is the live state of a user's current day.
type DayOverview struct {
	Date        timex.Date
	Status      attendance.DayStatus
	Actions     []attendance.EventType
	Events      []attendance.Event
	WorkedHours float64
}

// CommitResult reports what a commit changed and the stored day afterwards.
type CommitResult struct {
	Plan   attendance.CommitPlan
	Events []attendance.Event
}

// AttendanceService binds the attendance engine to the event store.
type AttendanceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	advisor     *attendance.Advisor
	loc         *time.Location
	log         logging.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewAttendanceService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	log logging.Logger, mx *metrics.Metrics) (*AttendanceService, error) {

	loc, err := cfg.CalendarLocation()
	if err != nil {
		return nil, fmt.Errorf("calendar location: %w", err)
	}
	h, err := cfg.Heuristics()
	if err != nil {
		return nil, err
	}

	return &AttendanceService{
		db:          db,
		repomanager: m,
		advisor:     attendance.NewAdvisor(h),
		loc:         loc,
		log:         log.With("module", "attendance_service"),
		metrics:     mx,
		now:         time.Now,
	}, nil
}

// Location is the zone calendar days are computed in.
func (s *AttendanceService) Location() *time.Location {
	return s.loc
}

func (s *AttendanceService) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: unknown user %d", common.ErrInvalidInput, userID)
		}
		return err
	}
	return nil
}

// GetDay returns the stored events of one day, the starting point of an
// edit session.
func (s *AttendanceService) GetDay(ctx context.Context, caller auth.Identity, userID int64, day timex.Date) (int64, []attendance.Event, error) {
	target, err := resolveTarget(caller, userID)
	if err != nil {
		return 0, nil, err
	}
	if err := requireDate("day", day); err != nil {
		return 0, nil, err
	}

	from, to := day.Bounds(s.loc)
	events, err := s.repomanager.Events(s.db).ListRange(ctx, target, from, to)
	if err != nil {
		return 0, nil, fmt.Errorf("error fetching day: %w", err)
	}
	return target, events, nil
}

// GetCompliance evaluates every day of [from, to] against the user's schedule.
func (s *AttendanceService) GetCompliance(ctx context.Context, caller auth.Identity, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error) {
	target, err := resolveTarget(caller, userID)
	if err != nil {
		return 0, nil, err
	}
	if err := requireDate("from", from); err != nil {
		return 0, nil, err
	}
	if err := requireDate("to", to); err != nil {
		return 0, nil, err
	}
	if err := s.ensureUser(ctx, target); err != nil {
		return 0, nil, err
	}
	if from.After(to) {
		return target, []attendance.DailyVerdict{}, nil
	}

	plan, err := s.repomanager.Schedules(s.db).GetForUser(ctx, target)
	if err != nil {
		return 0, nil, fmt.Errorf("error fetching schedule: %w", err)
	}

	start, _ := from.Bounds(s.loc)
	_, end := to.Bounds(s.loc)
	events, err := s.repomanager.Events(s.db).ListRange(ctx, target, start, end)
	if err != nil {
		return 0, nil, fmt.Errorf("error fetching events: %w", err)
	}

	return target, attendance.Evaluate(plan, events, from, to, s.loc), nil
}

// ValidateDayEdits checks an edited day without touching the store.
func (s *AttendanceService) ValidateDayEdits(events []attendance.Event) *attendance.Violation {
	v := attendance.Validate(events)
	if v != nil {
		s.metrics.ObserveViolation(*v)
	}
	return v
}

// ProposeNextEvents suggests the next plausible events for day.
func (s *AttendanceService) ProposeNextEvents(day timex.Date, events []attendance.Event) ([]attendance.Event, error) {
	if err := requireDate("day", day); err != nil {
		return nil, err
	}
	return s.advisor.Suggest(day, s.loc, events), nil
}

// CommitDayEdits replaces the stored day with the final edited sequence.
// The sequence must validate and every event must fall on day. Deletes run
// first, then creates, then updates, all inside one transaction.
func (s *AttendanceService) CommitDayEdits(ctx context.Context, caller auth.Identity, userID int64, day timex.Date, final []attendance.Event) (*CommitResult, error) {
	target, err := resolveTarget(caller, userID)
	if err != nil {
		return nil, err
	}
	if err := requireDate("day", day); err != nil {
		return nil, err
	}

	if v := s.ValidateDayEdits(final); v != nil {
		s.log.Info(ctx, "commit rejected", "user_id", target, "date", day, "violation", v.Code)
		return nil, &attendance.RejectedError{Violation: *v}
	}
	for _, e := range final {
		if !day.Contains(e.Timestamp, s.loc) {
			return nil, fmt.Errorf("%w: event %s is not on %s", common.ErrInvalidInput, e.Key(), day)
		}
	}

	res := &CommitResult{}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)
		from, to := day.Bounds(s.loc)

		stored, err := repo.ListRange(ctx, target, from, to)
		if err != nil {
			return err
		}

		plan, err := attendance.Reconcile(stored, final)
		if err != nil {
			if errors.Is(err, attendance.ErrForeignEvent) {
				return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
			}
			return err
		}

		for _, id := range plan.Deletes {
			if err := repo.Delete(ctx, target, id); err != nil {
				return fmt.Errorf("error deleting event %d: %w", id, err)
			}
		}
		for _, e := range plan.Creates {
			if _, err := repo.Create(ctx, target, e); err != nil {
				return fmt.Errorf("error creating event: %w", err)
			}
		}
		for _, e := range plan.Updates {
			if err := repo.Update(ctx, target, e); err != nil {
				return fmt.Errorf("error updating event %d: %w", e.ID, err)
			}
		}

		res.Plan = plan
		if plan.IsEmpty() {
			res.Events = stored
			return nil
		}
		res.Events, err = repo.ListRange(ctx, target, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCommit(res.Plan)
	s.log.Info(ctx, "day committed", "user_id", target, "date", day,
		"deletes", len(res.Plan.Deletes), "creates", len(res.Plan.Creates), "updates", len(res.Plan.Updates))
	return res, nil
}

// Clock records a live event for the caller at the current time. The type
// must be allowed by the day's status and the resulting day must validate.
func (s *AttendanceService) Clock(ctx context.Context, caller auth.Identity, t attendance.EventType) (attendance.Event, attendance.DayStatus, error) {
	target, err := resolveTarget(caller, 0)
	if err != nil {
		return attendance.Event{}, "", err
	}
	if !t.Valid() {
		return attendance.Event{}, "", fmt.Errorf("%w: event type %q", common.ErrInvalidInput, t)
	}

	now := s.now().In(s.loc).Truncate(time.Second)
	day := timex.DateIn(now, s.loc)

	var (
		created attendance.Event
		status  attendance.DayStatus
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)
		from, to := day.Bounds(s.loc)

		events, err := repo.ListRange(ctx, target, from, to)
		if err != nil {
			return err
		}

		current := attendance.StatusOf(events)
		if !attendance.CanClock(current, t) {
			return fmt.Errorf("%w: %s while %s", common.ErrClockNotAllowed, t, current)
		}

		candidate := attendance.Event{TempID: attendance.ProvisionalPrefix + "clock", Type: t, Timestamp: now}
		next := append(append([]attendance.Event{}, events...), candidate)
		if v := attendance.Validate(next); v != nil {
			s.metrics.ObserveViolation(*v)
			return &attendance.RejectedError{Violation: *v}
		}

		created, err = repo.Create(ctx, target, candidate)
		if err != nil {
			return fmt.Errorf("error creating event: %w", err)
		}
		status = attendance.StatusOf(append(events, created))
		return nil
	})
	if err != nil {
		return attendance.Event{}, "", err
	}

	s.metrics.ObserveClock(t)
	s.log.Info(ctx, "clock event recorded", "user_id", target, "type", t, "status", status)
	return created, status, nil
}

// Status summarises the user's current day.
func (s *AttendanceService) Status(ctx context.Context, caller auth.Identity, userID int64) (*DayOverview, error) {
	day := timex.DateIn(s.now(), s.loc)
	_, events, err := s.GetDay(ctx, caller, userID, day)
	if err != nil {
		return nil, err
	}

	status := attendance.StatusOf(events)
	return &DayOverview{
		Date:        day,
		Status:      status,
		Actions:     attendance.ClockActions(status),
		Events:      events,
		WorkedHours: attendance.WorkedHours(events),
	}, nil
}

// History returns the user's most recent events, newest first.
func (s *AttendanceService) History(ctx context.Context, caller auth.Identity, userID int64, limit int) ([]attendance.Event, error) {
	target, err := resolveTarget(caller, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	events, err := s.repomanager.Events(s.db).Latest(ctx, target, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching history: %w", err)
	}
	return events, nil
}

// OpenDays lists the days of [from, to] that have a ClockIn but no ClockOut.
func (s *AttendanceService) OpenDays(ctx context.Context, caller auth.Identity, userID int64, from, to timex.Date) (int64, []timex.Date, error) {
	target, err := resolveTarget(caller, userID)
	if err != nil {
		return 0, nil, err
	}
	if err := requireDate("from", from); err != nil {
		return 0, nil, err
	}
	if err := requireDate("to", to); err != nil {
		return 0, nil, err
	}
	if from.After(to) {
		return target, []timex.Date{}, nil
	}

	start, _ := from.Bounds(s.loc)
	_, end := to.Bounds(s.loc)
	events, err := s.repomanager.Events(s.db).ListRange(ctx, target, start, end)
	if err != nil {
		return 0, nil, fmt.Errorf("error fetching events: %w", err)
	}

	days := attendance.OpenDays(events, s.loc)
	if days == nil {
		days = []timex.Date{}
	}
	return target, days, nil
}

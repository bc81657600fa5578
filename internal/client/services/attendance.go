package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/punchclock/internal/filex"
	"github.com/dmitrijs2005/punchclock/internal/netx"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// ReportsDir is the working-directory subfolder exported reports land in.
const ReportsDir = "reports"

// AttendanceService is the client side of attendance: live clocking, reports
// and the day editor with drafts parked in the local database.
type AttendanceService interface {
	Status(ctx context.Context, userID int64) (*api.StatusResponse, error)
	Clock(ctx context.Context, t attendance.EventType) (*api.ClockResponse, error)
	History(ctx context.Context, userID int64, limit int) ([]attendance.Event, error)
	Compliance(ctx context.Context, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error)
	OpenDays(ctx context.Context, userID int64, from, to timex.Date) (int64, []timex.Date, error)
	Export(ctx context.Context, userID int64, from, to timex.Date) (string, error)

	BeginEdit(ctx context.Context, userID int64, day timex.Date) (*attendance.EditSession, bool, error)
	SaveDraft(ctx context.Context, s *attendance.EditSession) error
	Suggest(ctx context.Context, s *attendance.EditSession) ([]attendance.Event, error)
	Commit(ctx context.Context, s *attendance.EditSession) (*api.CommitResponse, error)
	Cancel(ctx context.Context, s *attendance.EditSession) error
	Drafts(ctx context.Context) ([]drafts.Info, error)
}

type attendanceService struct {
	client client.Client
	drafts drafts.Repository
	loc    *time.Location
	http   *http.Client
}

func NewAttendanceService(c client.Client, d drafts.Repository, loc *time.Location) AttendanceService {
	return &attendanceService{client: c, drafts: d, loc: loc, http: http.DefaultClient}
}

func (s *attendanceService) Status(ctx context.Context, userID int64) (*api.StatusResponse, error) {
	return s.client.Status(ctx, userID)
}

func (s *attendanceService) Clock(ctx context.Context, t attendance.EventType) (*api.ClockResponse, error) {
	return s.client.Clock(ctx, t)
}

func (s *attendanceService) History(ctx context.Context, userID int64, limit int) ([]attendance.Event, error) {
	return s.client.History(ctx, userID, limit)
}

func (s *attendanceService) Compliance(ctx context.Context, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error) {
	return s.client.GetCompliance(ctx, userID, from, to)
}

func (s *attendanceService) OpenDays(ctx context.Context, userID int64, from, to timex.Date) (int64, []timex.Date, error) {
	return s.client.OpenDays(ctx, userID, from, to)
}

// Export asks the server for a report and downloads it into ReportsDir,
// returning the local file path.
func (s *attendanceService) Export(ctx context.Context, userID int64, from, to timex.Date) (string, error) {
	exp, err := s.client.ExportCompliance(ctx, userID, from, to)
	if err != nil {
		return "", err
	}

	f, err := filex.CreateInSubdDir(ReportsDir, path.Base(exp.Key))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := netx.DownloadPresignedURL(ctx, s.http, exp.URL, f); err != nil {
		return "", fmt.Errorf("downloading report: %w", err)
	}
	return f.Name(), nil
}

// BeginEdit resumes the parked draft for (userID, day) if there is one and
// otherwise starts a session from the stored day. The bool reports a resume.
func (s *attendanceService) BeginEdit(ctx context.Context, userID int64, day timex.Date) (*attendance.EditSession, bool, error) {
	snap, err := s.drafts.Get(ctx, userID, day)
	if err != nil {
		return nil, false, err
	}
	if snap != nil {
		return attendance.RestoreEditSession(*snap, s.loc), true, nil
	}

	uid, events, err := s.client.GetDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			return nil, false, fmt.Errorf("%w: no draft of %s and %v", client.ErrLocalDataNotAvailable, day, err)
		}
		return nil, false, err
	}
	return attendance.NewEditSession(uid, day, s.loc, events), false, nil
}

func (s *attendanceService) SaveDraft(ctx context.Context, es *attendance.EditSession) error {
	return s.drafts.Save(ctx, es.Snapshot())
}

// Suggest asks the server's advisor for the missing events and applies them
// to the session.
func (s *attendanceService) Suggest(ctx context.Context, es *attendance.EditSession) ([]attendance.Event, error) {
	proposals, err := s.client.ProposeNextEvents(ctx, es.Day(), es.Events())
	if err != nil {
		return nil, err
	}
	if err := es.Apply(proposals); err != nil {
		return nil, err
	}
	if err := s.SaveDraft(ctx, es); err != nil {
		return nil, err
	}
	return proposals, nil
}

// Commit validates locally, sends the final day and drops the draft.
func (s *attendanceService) Commit(ctx context.Context, es *attendance.EditSession) (*api.CommitResponse, error) {
	if v := es.Validate(); v != nil {
		return nil, &attendance.RejectedError{Violation: *v}
	}

	resp, err := s.client.CommitDayEdits(ctx, es.UserID(), es.Day(), es.Events())
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, es.UserID(), es.Day()); err != nil {
		return resp, fmt.Errorf("committed, but the draft could not be removed: %w", err)
	}
	return resp, nil
}

func (s *attendanceService) Cancel(ctx context.Context, es *attendance.EditSession) error {
	return s.drafts.Delete(ctx, es.UserID(), es.Day())
}

// Drafts lists the parked edit sessions, newest first.
func (s *attendanceService) Drafts(ctx context.Context) ([]drafts.Info, error) {
	return s.drafts.List(ctx)
}

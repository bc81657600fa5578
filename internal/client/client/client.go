package client

import (
	"context"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// Session describes the account the client is logged in as.
type Session struct {
	UserID int64
	Name   string
	Role   string
}

// Client is the punchclock API as seen by the terminal client. A userID of 0
// means the logged-in user.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, userID int64, pin string) (*Session, error)
	AdminLogin(ctx context.Context, username, password string) (*Session, error)
	Logout()

	GetDay(ctx context.Context, userID int64, day timex.Date) (int64, []attendance.Event, error)
	GetCompliance(ctx context.Context, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error)
	ValidateDayEdits(ctx context.Context, events []attendance.Event) (*attendance.Violation, error)
	ProposeNextEvents(ctx context.Context, day timex.Date, events []attendance.Event) ([]attendance.Event, error)
	CommitDayEdits(ctx context.Context, userID int64, day timex.Date, events []attendance.Event) (*api.CommitResponse, error)
	Clock(ctx context.Context, t attendance.EventType) (*api.ClockResponse, error)
	Status(ctx context.Context, userID int64) (*api.StatusResponse, error)
	History(ctx context.Context, userID int64, limit int) ([]attendance.Event, error)
	OpenDays(ctx context.Context, userID int64, from, to timex.Date) (int64, []timex.Date, error)
	ExportCompliance(ctx context.Context, userID int64, from, to timex.Date) (*api.ExportResponse, error)
}

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/client/migrations"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var monday = timex.Date{Year: 2025, Month: time.November, Day: 3}

func at(h, m int) time.Time { return monday.At(h, m, time.UTC) }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

// fakeClient implements only what the services touch; anything else panics
// through the nil embedded interface.
type fakeClient struct {
	client.Client

	session   *client.Session
	loginErr  error
	pingErr   error
	closeErr  error
	loggedOut bool

	day       []attendance.Event
	dayCalls  int
	dayErr    error
	proposals []attendance.Event
	commitErr error
	committed []attendance.Event
	export    *api.ExportResponse
}

func (f *fakeClient) Login(ctx context.Context, userID int64, pin string) (*client.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}

func (f *fakeClient) AdminLogin(ctx context.Context, username, password string) (*client.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}

func (f *fakeClient) Logout()                        { f.loggedOut = true }
func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeClient) Close() error                   { return f.closeErr }

func (f *fakeClient) GetDay(ctx context.Context, userID int64, day timex.Date) (int64, []attendance.Event, error) {
	f.dayCalls++
	if f.dayErr != nil {
		return 0, nil, f.dayErr
	}
	return userID, f.day, nil
}

func (f *fakeClient) ProposeNextEvents(ctx context.Context, day timex.Date, events []attendance.Event) ([]attendance.Event, error) {
	return f.proposals, nil
}

func (f *fakeClient) CommitDayEdits(ctx context.Context, userID int64, day timex.Date, events []attendance.Event) (*api.CommitResponse, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	f.committed = events
	return &api.CommitResponse{Created: 1}, nil
}

func (f *fakeClient) ExportCompliance(ctx context.Context, userID int64, from, to timex.Date) (*api.ExportResponse, error) {
	return f.export, nil
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/punchclock/internal/client/services"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = timex.Date{Year: 2025, Month: time.November, Day: 3}

type fakeAuth struct {
	services.AuthService

	session  *client.Session
	err      error
	pingErr  error
	lastID   int64
	gotID    int64
	gotPIN   string
	gotAdmin string
	out      bool
}

func (f *fakeAuth) Login(ctx context.Context, userID int64, pin string) (*client.Session, error) {
	f.gotID, f.gotPIN = userID, pin
	return f.session, f.err
}

func (f *fakeAuth) AdminLogin(ctx context.Context, username, password string) (*client.Session, error) {
	f.gotAdmin = username
	return f.session, f.err
}

func (f *fakeAuth) LastUserID(ctx context.Context) int64 { return f.lastID }
func (f *fakeAuth) LastAdmin(ctx context.Context) string { return "" }
func (f *fakeAuth) Logout(ctx context.Context) error     { f.out = true; return nil }
func (f *fakeAuth) Ping(ctx context.Context) error       { return f.pingErr }

type fakeAttendance struct {
	services.AttendanceService

	status    *api.StatusResponse
	clocked   attendance.EventType
	verdicts  []attendance.DailyVerdict
	from, to  timex.Date
	userID    int64
	day       []attendance.Event
	saved     int
	cancelled bool
	commitErr error
	committed bool
}

func (f *fakeAttendance) Status(ctx context.Context, userID int64) (*api.StatusResponse, error) {
	f.userID = userID
	return f.status, nil
}

func (f *fakeAttendance) Clock(ctx context.Context, t attendance.EventType) (*api.ClockResponse, error) {
	f.clocked = t
	return &api.ClockResponse{
		Event:  attendance.Event{ID: 1, Type: t, Timestamp: monday.At(9, 0, time.UTC)},
		Status: attendance.Working,
	}, nil
}

func (f *fakeAttendance) Compliance(ctx context.Context, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error) {
	f.userID, f.from, f.to = userID, from, to
	return 9, f.verdicts, nil
}

func (f *fakeAttendance) BeginEdit(ctx context.Context, userID int64, day timex.Date) (*attendance.EditSession, bool, error) {
	f.userID = userID
	return attendance.NewEditSession(userID, day, time.UTC, f.day), false, nil
}

func (f *fakeAttendance) SaveDraft(ctx context.Context, s *attendance.EditSession) error {
	f.saved++
	return nil
}

func (f *fakeAttendance) Commit(ctx context.Context, s *attendance.EditSession) (*api.CommitResponse, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	if v := s.Validate(); v != nil {
		return nil, &attendance.RejectedError{Violation: *v}
	}
	f.committed = true
	return &api.CommitResponse{Created: 1}, nil
}

func (f *fakeAttendance) Cancel(ctx context.Context, s *attendance.EditSession) error {
	f.cancelled = true
	return nil
}

func (f *fakeAttendance) Drafts(ctx context.Context) ([]drafts.Info, error) { return nil, nil }

func newTestApp(auth *fakeAuth, att *fakeAttendance, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		auth:       auth,
		attendance: att,
		loc:        time.UTC,
		reader:     bufio.NewReader(strings.NewReader(input)),
		out:        &out,
		session:    &client.Session{UserID: 7, Name: "Ana", Role: common.RoleEmployee},
	}, &out
}

func stubSecret(t *testing.T, secret string) {
	t.Helper()
	old := getSecret
	getSecret = func(string, io.Writer) ([]byte, error) { return []byte(secret), nil }
	t.Cleanup(func() { getSecret = old })
}

func TestIsLoggedIn(t *testing.T) {
	app := &App{}
	assert.False(t, app.isLoggedIn())
	app.session = &client.Session{UserID: 1, Role: common.RoleAdmin}
	assert.True(t, app.isLoggedIn())
	assert.True(t, app.isAdmin())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	app := &App{}
	var buf bytes.Buffer

	old := log.Default().Writer()
	defer log.SetOutput(old)
	log.SetOutput(&buf)

	app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, app.mode())
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	app.setMode(ModeOnline)
	assert.Empty(t, buf.String())

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.mode())
	assert.NotEmpty(t, buf.String())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	auth := &fakeAuth{pingErr: errors.New("down")}
	app, _ := newTestApp(auth, &fakeAttendance{}, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)

	assert.Equal(t, ModeOffline, app.mode())
}

func TestLogin_PromptsWithLastID(t *testing.T) {
	stubSecret(t, "1234")
	auth := &fakeAuth{lastID: 7, session: &client.Session{UserID: 7, Name: "Ana"}}
	app, out := newTestApp(auth, &fakeAttendance{}, "\n")
	app.session = nil

	require.NoError(t, app.Login(context.Background(), nil))
	assert.Equal(t, int64(7), auth.gotID)
	assert.Equal(t, "1234", auth.gotPIN)
	assert.Contains(t, out.String(), "Enter employee id [7]")
	assert.Contains(t, out.String(), "Welcome, Ana!")
	assert.True(t, app.isLoggedIn())
}

func TestLogin_BadID(t *testing.T) {
	app, _ := newTestApp(&fakeAuth{}, &fakeAttendance{}, "")
	err := app.Login(context.Background(), []string{"abc"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestLogin_Unavailable(t *testing.T) {
	stubSecret(t, "1234")
	auth := &fakeAuth{err: client.ErrUnavailable}
	app, _ := newTestApp(auth, &fakeAttendance{}, "")
	app.session = nil

	err := app.Login(context.Background(), []string{"7"})
	require.Error(t, err)
	assert.Equal(t, ModeOffline, app.mode())
	assert.False(t, app.isLoggedIn())
}

func TestAdminLogin(t *testing.T) {
	stubSecret(t, "hunter2")
	auth := &fakeAuth{session: &client.Session{UserID: 1, Name: "Root", Role: common.RoleAdmin}}
	app, _ := newTestApp(auth, &fakeAttendance{}, "root\n")

	require.NoError(t, app.AdminLogin(context.Background(), nil))
	assert.Equal(t, "root", auth.gotAdmin)
	assert.True(t, app.isAdmin())
}

func TestStatusAndClock(t *testing.T) {
	att := &fakeAttendance{status: &api.StatusResponse{
		Date:        monday,
		Status:      attendance.Working,
		Actions:     []attendance.EventType{attendance.BreakStart, attendance.ClockOut},
		Events:      []attendance.Event{{ID: 1, Type: attendance.ClockIn, Timestamp: monday.At(9, 0, time.UTC)}},
		WorkedHours: 2.5,
	}}
	app, out := newTestApp(&fakeAuth{}, att, "")
	ctx := context.Background()

	require.NoError(t, app.Status(ctx, []string{"9"}))
	assert.Equal(t, int64(9), att.userID)
	assert.Contains(t, out.String(), "worked 2.50h")
	assert.Contains(t, out.String(), "Next: clock break|out")

	require.NoError(t, app.Clock(ctx, []string{"in"}))
	assert.Equal(t, attendance.ClockIn, att.clocked)

	assert.ErrorIs(t, app.Clock(ctx, []string{"lunch"}), common.ErrInvalidInput)
	assert.ErrorIs(t, app.Clock(ctx, nil), common.ErrInvalidInput)
	assert.Error(t, app.Status(ctx, []string{"x"}))
}

func TestReport(t *testing.T) {
	att := &fakeAttendance{verdicts: []attendance.DailyVerdict{
		{Date: monday, DayOfWeek: 1, ExpectedHours: 8, ActualHours: 8, IsWorkDay: true, Compliant: true},
		{Date: monday.AddDays(1), DayOfWeek: 2, ExpectedHours: 8, ActualHours: 6, IsWorkDay: true},
	}}
	app, out := newTestApp(&fakeAuth{}, att, "")

	require.NoError(t, app.Report(context.Background(), []string{"2025-11-03", "2025-11-04"}))
	assert.Equal(t, monday, att.from)
	assert.Equal(t, monday.AddDays(1), att.to)
	assert.Equal(t, int64(0), att.userID)

	s := out.String()
	assert.Contains(t, s, "Compliance of user 9")
	assert.Contains(t, s, "Mon")
	assert.Contains(t, s, "16.00")
	assert.Contains(t, s, "14.00")
}

func TestEditSession_Flow(t *testing.T) {
	att := &fakeAttendance{day: []attendance.Event{
		{ID: 1, Type: attendance.ClockIn, Timestamp: monday.At(9, 0, time.UTC)},
	}}
	app, out := newTestApp(&fakeAuth{}, att, "")
	ctx := context.Background()

	assert.ErrorIs(t, app.Show(ctx, nil), errNoEdit)

	require.NoError(t, app.Edit(ctx, []string{"2025-11-03"}))
	assert.Equal(t, int64(7), att.userID)
	assert.Contains(t, app.getStatus(), "edit 2025-11-03")

	require.NoError(t, app.Add(ctx, []string{"resume", "10:00"}))
	assert.Contains(t, out.String(), "invalid: break-end cannot follow entry")

	assert.ErrorIs(t, app.Set(ctx, []string{"5", "11:00"}), common.ErrInvalidInput)
	require.NoError(t, app.Set(ctx, []string{"2", "out"}))
	require.NoError(t, app.Set(ctx, []string{"2", "17:00"}))
	assert.Equal(t, 3, att.saved)
	assert.ErrorIs(t, app.Set(ctx, []string{"2", "noon", "out"}), common.ErrInvalidInput)
	require.NoError(t, app.Set(ctx, []string{"2", "17:30", "out"}))
	assert.Equal(t, 4, att.saved)

	require.NoError(t, app.Check(ctx, nil))
	assert.Contains(t, out.String(), "Day is valid")

	require.NoError(t, app.Commit(ctx, nil))
	assert.True(t, att.committed)
	assert.Nil(t, app.edit)
}

func TestCommit_Rejected(t *testing.T) {
	att := &fakeAttendance{day: []attendance.Event{
		{ID: 1, Type: attendance.ClockIn, Timestamp: monday.At(9, 0, time.UTC)},
	}}
	app, _ := newTestApp(&fakeAuth{}, att, "")
	ctx := context.Background()

	require.NoError(t, app.Edit(ctx, []string{"2025-11-03"}))
	require.NoError(t, app.Add(ctx, []string{"in", "10:00"}))

	err := app.Commit(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day rejected: multiple entries")
	assert.NotNil(t, app.edit)
}

func TestRemoveAndCancel(t *testing.T) {
	att := &fakeAttendance{day: []attendance.Event{
		{ID: 1, Type: attendance.ClockIn, Timestamp: monday.At(9, 0, time.UTC)},
	}}
	app, _ := newTestApp(&fakeAuth{}, att, "")
	ctx := context.Background()

	require.NoError(t, app.Edit(ctx, []string{"2025-11-03"}))
	require.NoError(t, app.Remove(ctx, []string{"1"}))
	assert.Empty(t, app.edit.Events())
	assert.True(t, app.edit.Dirty())

	require.NoError(t, app.Cancel(ctx, nil))
	assert.True(t, att.cancelled)
	assert.Nil(t, app.edit)
}

func TestLogout_ParksDirtyEdit(t *testing.T) {
	att := &fakeAttendance{}
	auth := &fakeAuth{}
	app, out := newTestApp(auth, att, "")
	ctx := context.Background()

	require.NoError(t, app.Edit(ctx, []string{"2025-11-03"}))
	require.NoError(t, app.Add(ctx, []string{"in", "09:00"}))
	saved := att.saved

	require.NoError(t, app.Logout(ctx, nil))
	assert.Equal(t, saved+1, att.saved)
	assert.True(t, auth.out)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "parked as a draft")
}

func TestParseRange(t *testing.T) {
	app := &App{loc: time.UTC}

	from, to, rest, err := app.parseRange([]string{"2025-11-03"})
	require.NoError(t, err)
	assert.Equal(t, monday, from)
	assert.Equal(t, monday, to)
	assert.Empty(t, rest)

	from, to, _, err = app.parseRange(nil)
	require.NoError(t, err)
	assert.Equal(t, to.AddDays(-6), from)

	_, _, _, err = app.parseRange([]string{"2025-11-03", "nope"})
	assert.Error(t, err)
}

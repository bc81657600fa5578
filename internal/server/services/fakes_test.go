package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/server/models"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/events"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/schedules"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- events ---

// memEvents is an in-memory event store that counts mutations.
type memEvents struct {
	events.Repository

	nextID int64
	byUser map[int64][]attendance.Event

	listErr   error
	createErr error

	deletes, creates, updates int
}

func newMemEvents() *memEvents {
	return &memEvents{nextID: 100, byUser: map[int64][]attendance.Event{}}
}

func (m *memEvents) seed(userID int64, evs ...attendance.Event) {
	m.byUser[userID] = append(m.byUser[userID], evs...)
}

func (m *memEvents) mutations() int { return m.deletes + m.creates + m.updates }

func (m *memEvents) ListRange(_ context.Context, userID int64, from, to time.Time) ([]attendance.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []attendance.Event
	for _, e := range m.byUser[userID] {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			out = append(out, e)
		}
	}
	return attendance.Sorted(out), nil
}

func (m *memEvents) Latest(_ context.Context, userID int64, limit int) ([]attendance.Event, error) {
	out := attendance.Sorted(m.byUser[userID])
	sort.SliceStable(out, func(i, j int) bool { return attendance.Less(out[j], out[i]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memEvents) Create(_ context.Context, userID int64, e attendance.Event) (attendance.Event, error) {
	if m.createErr != nil {
		return attendance.Event{}, m.createErr
	}
	m.nextID++
	stored := attendance.Event{ID: m.nextID, Type: e.Type, Timestamp: e.Timestamp.Truncate(time.Second)}
	m.byUser[userID] = append(m.byUser[userID], stored)
	m.creates++
	return stored, nil
}

func (m *memEvents) Update(_ context.Context, userID int64, e attendance.Event) error {
	for i, s := range m.byUser[userID] {
		if s.ID == e.ID {
			m.byUser[userID][i] = attendance.Event{ID: e.ID, Type: e.Type, Timestamp: e.Timestamp.Truncate(time.Second)}
			m.updates++
			return nil
		}
	}
	return common.ErrorNotFound
}

func (m *memEvents) Delete(_ context.Context, userID int64, id int64) error {
	evs := m.byUser[userID]
	for i, s := range evs {
		if s.ID == id {
			m.byUser[userID] = append(evs[:i:i], evs[i+1:]...)
			m.deletes++
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- schedules ---

type fakeSchedules struct {
	schedules.Repository
	plan *attendance.SchedulePlan
	err  error
}

func (f *fakeSchedules) GetForUser(context.Context, int64) (*attendance.SchedulePlan, error) {
	return f.plan, f.err
}

// --- users ---

type fakeUsers struct {
	users.Repository
	byID map[int64]*models.User
	err  error
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	refreshtokens.Repository

	findOut *models.RefreshToken
	findErr error

	delErr    error
	createErr error
	purgeErr  error

	created []string
	purged  int
}

func (f *fakeRefreshRepo) Create(_ context.Context, _ int64, token string, _ time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(context.Context, string) error {
	return f.delErr
}

func (f *fakeRefreshRepo) DeleteExpired(context.Context, int64, time.Time) (int64, error) {
	f.purged++
	return 0, f.purgeErr
}

// --- manager ---

type fakeRepoManager struct {
	repomanager.RepositoryManager

	users     *fakeUsers
	tokens    *fakeRefreshRepo
	events    *memEvents
	schedules *fakeSchedules
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepoManager) Events(dbx.DBTX) events.Repository               { return m.events }
func (m *fakeRepoManager) Schedules(dbx.DBTX) schedules.Repository         { return m.schedules }

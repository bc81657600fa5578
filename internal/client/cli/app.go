package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/client/config"
	"github.com/dmitrijs2005/punchclock/internal/client/services"
	"github.com/dmitrijs2005/punchclock/internal/common"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config     *config.Config
	auth       services.AuthService
	attendance services.AttendanceService
	loc        *time.Location
	session    *client.Session
	edit       *attendance.EditSession
	reader     *bufio.Reader
	out        io.Writer

	mu   sync.RWMutex
	Mode Mode
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	loc, err := c.CalendarLocation()
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DraftsPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewPunchclockClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	repos := client.NewRepositories(db)
	as := services.NewAuthService(apiClient, repos.Metadata)
	ats := services.NewAttendanceService(apiClient, repos.Drafts, loc)

	return &App{
		config:     c,
		auth:       as,
		attendance: ats,
		loc:        loc,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Mode
}

func (a *App) Run(ctx context.Context) {
	defer a.auth.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) isAdmin() bool {
	return a.session != nil && a.session.Role == common.RoleAdmin
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode
// accordingly until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

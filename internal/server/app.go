// Package server wires the punchclock server together: configuration,
// logging, the PostgreSQL store, services, the gRPC endpoint and the
// metrics endpoint, and shuts everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/punchclock/internal/logging"
	"github.com/dmitrijs2005/punchclock/internal/server/config"
	"github.com/dmitrijs2005/punchclock/internal/server/metrics"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/punchclock/internal/server/services"

	gs "github.com/dmitrijs2005/punchclock/internal/server/grpc"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	metrics           *metrics.Metrics
	userService       *services.UserService
	attendanceService *services.AttendanceService
	reportService     *services.ReportService
}

// openDB is a seam for tests.
var openDB = repomanager.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	mx := metrics.New()

	as, err := services.NewAttendanceService(db, rm, c, logger, mx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	us := services.NewUserService(db, rm, c, logger)
	rs := services.NewReportService(as, c, logger)

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		metrics:           mx,
		userService:       us,
		attendanceService: as,
		reportService:     rs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.attendanceService,
		app.reportService, app.metrics, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context) {
	if app.config.EndpointAddrMetrics == "" {
		return
	}
	app.logger.Info(ctx, "Starting metrics server", "address", app.config.EndpointAddrMetrics)
	if err := app.metrics.Serve(ctx, app.config.EndpointAddrMetrics); err != nil {
		app.logger.Error(ctx, "metrics server stopped", "error", err.Error())
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err.Error())
	}
	app.logger.Info(context.Background(), "App stopped")
}

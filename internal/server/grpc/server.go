package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/logging"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	"github.com/dmitrijs2005/punchclock/internal/server/metrics"
	"github.com/dmitrijs2005/punchclock/internal/server/services"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"google.golang.org/grpc"
)

// UserService is the authentication surface the handlers need.
type UserService interface {
	Login(ctx context.Context, userID int64, pin string) (*services.TokenPair, error)
	AdminLogin(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// AttendanceService is the attendance engine bound to the event store.
type AttendanceService interface {
	GetDay(ctx context.Context, caller auth.Identity, userID int64, day timex.Date) (int64, []attendance.Event, error)
	GetCompliance(ctx context.Context, caller auth.Identity, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error)
	ValidateDayEdits(events []attendance.Event) *attendance.Violation
	ProposeNextEvents(day timex.Date, events []attendance.Event) ([]attendance.Event, error)
	CommitDayEdits(ctx context.Context, caller auth.Identity, userID int64, day timex.Date, final []attendance.Event) (*services.CommitResult, error)
	Clock(ctx context.Context, caller auth.Identity, t attendance.EventType) (attendance.Event, attendance.DayStatus, error)
	Status(ctx context.Context, caller auth.Identity, userID int64) (*services.DayOverview, error)
	History(ctx context.Context, caller auth.Identity, userID int64, limit int) ([]attendance.Event, error)
	OpenDays(ctx context.Context, caller auth.Identity, userID int64, from, to timex.Date) (int64, []timex.Date, error)
}

type ReportService interface {
	ExportCompliance(ctx context.Context, caller auth.Identity, userID int64, from, to timex.Date) (*services.Export, error)
}

// GRPCServer serves api.AttendanceServer over gRPC with the JSON codec.
type GRPCServer struct {
	address    string
	users      UserService
	attendance AttendanceService
	reports    ReportService
	logger     logging.Logger
	metrics    *metrics.Metrics
	jwtSecret  []byte
}

var _ api.AttendanceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserService, as AttendanceService, rs ReportService,
	m *metrics.Metrics, secretKey string) (*GRPCServer, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		users:      us,
		attendance: as,
		reports:    rs,
		metrics:    m,
		jwtSecret:  []byte(secretKey),
	}, nil
}

// NewServer builds a grpc.Server with the interceptors installed and the
// attendance service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	api.RegisterAttendanceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

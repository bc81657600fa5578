package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// attendanceRPC is the generated-style stub surface; *api.AttendanceClient
// satisfies it.
type attendanceRPC interface {
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.TokenResponse, error)
	AdminLogin(ctx context.Context, in *api.AdminLoginRequest, opts ...grpc.CallOption) (*api.TokenResponse, error)
	RefreshToken(ctx context.Context, in *api.RefreshTokenRequest, opts ...grpc.CallOption) (*api.TokenResponse, error)
	GetDay(ctx context.Context, in *api.DayRequest, opts ...grpc.CallOption) (*api.DayResponse, error)
	GetCompliance(ctx context.Context, in *api.RangeRequest, opts ...grpc.CallOption) (*api.ComplianceResponse, error)
	ValidateDayEdits(ctx context.Context, in *api.ValidateRequest, opts ...grpc.CallOption) (*api.ValidateResponse, error)
	ProposeNextEvents(ctx context.Context, in *api.ProposeRequest, opts ...grpc.CallOption) (*api.ProposeResponse, error)
	CommitDayEdits(ctx context.Context, in *api.CommitRequest, opts ...grpc.CallOption) (*api.CommitResponse, error)
	Clock(ctx context.Context, in *api.ClockRequest, opts ...grpc.CallOption) (*api.ClockResponse, error)
	Status(ctx context.Context, in *api.StatusRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
	History(ctx context.Context, in *api.HistoryRequest, opts ...grpc.CallOption) (*api.HistoryResponse, error)
	OpenDays(ctx context.Context, in *api.RangeRequest, opts ...grpc.CallOption) (*api.OpenDaysResponse, error)
	ExportCompliance(ctx context.Context, in *api.RangeRequest, opts ...grpc.CallOption) (*api.ExportResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      attendanceRPC

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if api.IsPublic(method) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	// tokens refreshed, retry once with the new access token
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewPunchclockClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAttendanceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) startSession(resp *api.TokenResponse) *Session {
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return &Session{UserID: resp.UserID, Name: resp.Name, Role: resp.Role}
}

func (s *GRPCClient) Login(ctx context.Context, userID int64, pin string) (*Session, error) {

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	resp, err := s.client.Login(ctx, &api.LoginRequest{UserID: userID, PIN: pin})
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.startSession(resp), nil

}

func (s *GRPCClient) AdminLogin(ctx context.Context, username, password string) (*Session, error) {

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	resp, err := s.client.AdminLogin(ctx, &api.AdminLoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.startSession(resp), nil

}

// Logout forgets the tokens held in memory.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) GetDay(ctx context.Context, userID int64, day timex.Date) (int64, []attendance.Event, error) {
	resp, err := s.client.GetDay(ctx, &api.DayRequest{UserID: userID, Date: day})
	if err != nil {
		return 0, nil, s.mapError(err)
	}
	return resp.UserID, resp.Events, nil
}

func (s *GRPCClient) GetCompliance(ctx context.Context, userID int64, from, to timex.Date) (int64, []attendance.DailyVerdict, error) {
	resp, err := s.client.GetCompliance(ctx, &api.RangeRequest{UserID: userID, From: from, To: to})
	if err != nil {
		return 0, nil, s.mapError(err)
	}
	return resp.UserID, resp.Verdicts, nil
}

func (s *GRPCClient) ValidateDayEdits(ctx context.Context, events []attendance.Event) (*attendance.Violation, error) {
	resp, err := s.client.ValidateDayEdits(ctx, &api.ValidateRequest{Events: events})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Valid {
		return nil, nil
	}
	return resp.Violation, nil
}

func (s *GRPCClient) ProposeNextEvents(ctx context.Context, day timex.Date, events []attendance.Event) ([]attendance.Event, error) {
	resp, err := s.client.ProposeNextEvents(ctx, &api.ProposeRequest{Date: day, Events: events})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Proposals, nil
}

func (s *GRPCClient) CommitDayEdits(ctx context.Context, userID int64, day timex.Date, events []attendance.Event) (*api.CommitResponse, error) {
	resp, err := s.client.CommitDayEdits(ctx, &api.CommitRequest{UserID: userID, Date: day, Events: events})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Clock(ctx context.Context, t attendance.EventType) (*api.ClockResponse, error) {
	resp, err := s.client.Clock(ctx, &api.ClockRequest{Type: t})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Status(ctx context.Context, userID int64) (*api.StatusResponse, error) {
	resp, err := s.client.Status(ctx, &api.StatusRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) History(ctx context.Context, userID int64, limit int) ([]attendance.Event, error) {
	resp, err := s.client.History(ctx, &api.HistoryRequest{UserID: userID, Limit: limit})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Events, nil
}

func (s *GRPCClient) OpenDays(ctx context.Context, userID int64, from, to timex.Date) (int64, []timex.Date, error) {
	resp, err := s.client.OpenDays(ctx, &api.RangeRequest{UserID: userID, From: from, To: to})
	if err != nil {
		return 0, nil, s.mapError(err)
	}
	return resp.UserID, resp.Days, nil
}

func (s *GRPCClient) ExportCompliance(ctx context.Context, userID int64, from, to timex.Date) (*api.ExportResponse, error) {
	resp, err := s.client.ExportCompliance(ctx, &api.RangeRequest{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

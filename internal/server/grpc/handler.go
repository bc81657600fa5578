package grpc

import (
	"context"

	"github.com/dmitrijs2005/punchclock/internal/api"
	"github.com/dmitrijs2005/punchclock/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err.Error())
	}
	return st
}

func tokenResponse(p *services.TokenPair) *api.TokenResponse {
	return &api.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		UserID:       p.UserID,
		Name:         p.Name,
		Role:         p.Role,
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {

	tokens, err := s.users.Login(ctx, req.UserID, req.PIN)
	if err != nil {
		return nil, s.fail(ctx, api.MethodLogin, err)
	}

	s.logger.Info(ctx, "Logged in", "user_id", tokens.UserID)
	return tokenResponse(tokens), nil

}

func (s *GRPCServer) AdminLogin(ctx context.Context, req *api.AdminLoginRequest) (*api.TokenResponse, error) {

	tokens, err := s.users.AdminLogin(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.fail(ctx, api.MethodAdminLogin, err)
	}

	s.logger.Info(ctx, "Admin logged in", "user_id", tokens.UserID)
	return tokenResponse(tokens), nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, api.MethodRefreshToken, err)
	}

	return tokenResponse(tokens), nil

}

func (s *GRPCServer) GetDay(ctx context.Context, req *api.DayRequest) (*api.DayResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	userID, events, err := s.attendance.GetDay(ctx, caller, req.UserID, req.Date)
	if err != nil {
		return nil, s.fail(ctx, api.MethodGetDay, err)
	}

	return &api.DayResponse{UserID: userID, Date: req.Date, Events: nonNil(events)}, nil

}

func (s *GRPCServer) GetCompliance(ctx context.Context, req *api.RangeRequest) (*api.ComplianceResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	userID, verdicts, err := s.attendance.GetCompliance(ctx, caller, req.UserID, req.From, req.To)
	if err != nil {
		return nil, s.fail(ctx, api.MethodGetCompliance, err)
	}

	return &api.ComplianceResponse{UserID: userID, Verdicts: nonNil(verdicts)}, nil

}

func (s *GRPCServer) ValidateDayEdits(ctx context.Context, req *api.ValidateRequest) (*api.ValidateResponse, error) {

	v := s.attendance.ValidateDayEdits(req.Events)
	if v == nil {
		return &api.ValidateResponse{Valid: true}, nil
	}

	return &api.ValidateResponse{Violation: v, Reason: v.Reason()}, nil

}

func (s *GRPCServer) ProposeNextEvents(ctx context.Context, req *api.ProposeRequest) (*api.ProposeResponse, error) {

	proposals, err := s.attendance.ProposeNextEvents(req.Date, req.Events)
	if err != nil {
		return nil, s.fail(ctx, api.MethodProposeNextEvents, err)
	}

	return &api.ProposeResponse{Proposals: nonNil(proposals)}, nil

}

func (s *GRPCServer) CommitDayEdits(ctx context.Context, req *api.CommitRequest) (*api.CommitResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	res, err := s.attendance.CommitDayEdits(ctx, caller, req.UserID, req.Date, req.Events)
	if err != nil {
		return nil, s.fail(ctx, api.MethodCommitDayEdits, err)
	}

	return &api.CommitResponse{
		Deleted: len(res.Plan.Deletes),
		Created: len(res.Plan.Creates),
		Updated: len(res.Plan.Updates),
		Events:  nonNil(res.Events),
	}, nil

}

func (s *GRPCServer) Clock(ctx context.Context, req *api.ClockRequest) (*api.ClockResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	e, st, err := s.attendance.Clock(ctx, caller, req.Type)
	if err != nil {
		return nil, s.fail(ctx, api.MethodClock, err)
	}

	return &api.ClockResponse{Event: e, Status: st}, nil

}

func (s *GRPCServer) Status(ctx context.Context, req *api.StatusRequest) (*api.StatusResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	o, err := s.attendance.Status(ctx, caller, req.UserID)
	if err != nil {
		return nil, s.fail(ctx, api.MethodStatus, err)
	}

	return &api.StatusResponse{
		Date:        o.Date,
		Status:      o.Status,
		Actions:     nonNil(o.Actions),
		Events:      nonNil(o.Events),
		WorkedHours: o.WorkedHours,
	}, nil

}

func (s *GRPCServer) History(ctx context.Context, req *api.HistoryRequest) (*api.HistoryResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	events, err := s.attendance.History(ctx, caller, req.UserID, req.Limit)
	if err != nil {
		return nil, s.fail(ctx, api.MethodHistory, err)
	}

	return &api.HistoryResponse{Events: nonNil(events)}, nil

}

func (s *GRPCServer) OpenDays(ctx context.Context, req *api.RangeRequest) (*api.OpenDaysResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	userID, days, err := s.attendance.OpenDays(ctx, caller, req.UserID, req.From, req.To)
	if err != nil {
		return nil, s.fail(ctx, api.MethodOpenDays, err)
	}

	return &api.OpenDaysResponse{UserID: userID, Days: nonNil(days)}, nil

}

func (s *GRPCServer) ExportCompliance(ctx context.Context, req *api.RangeRequest) (*api.ExportResponse, error) {

	caller, _ := IdentityFromContext(ctx)
	exp, err := s.reports.ExportCompliance(ctx, caller, req.UserID, req.From, req.To)
	if err != nil {
		return nil, s.fail(ctx, api.MethodExportCompliance, err)
	}

	s.logger.Info(ctx, "Report exported", "key", exp.Key)
	return &api.ExportResponse{Key: exp.Key, URL: exp.URL, ExpiresAt: exp.ExpiresAt}, nil

}

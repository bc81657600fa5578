package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "punchclock.Attendance"

const (
	MethodPing              = "Ping"
	MethodLogin             = "Login"
	MethodAdminLogin        = "AdminLogin"
	MethodRefreshToken      = "RefreshToken"
	MethodGetDay            = "GetDay"
	MethodGetCompliance     = "GetCompliance"
	MethodValidateDayEdits  = "ValidateDayEdits"
	MethodProposeNextEvents = "ProposeNextEvents"
	MethodCommitDayEdits    = "CommitDayEdits"
	MethodClock             = "Clock"
	MethodStatus            = "Status"
	MethodHistory           = "History"
	MethodOpenDays          = "OpenDays"
	MethodExportCompliance  = "ExportCompliance"
)

// FullMethod returns the gRPC path of a method, e.g. "/punchclock.Attendance/Clock".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var publicMethods = map[string]bool{
	FullMethod(MethodPing):         true,
	FullMethod(MethodLogin):        true,
	FullMethod(MethodAdminLogin):   true,
	FullMethod(MethodRefreshToken): true,
}

// IsPublic reports whether fullMethod may be called without an access token.
func IsPublic(fullMethod string) bool {
	return publicMethods[fullMethod]
}

// AttendanceServer is implemented by the server's gRPC handler.
type AttendanceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	AdminLogin(context.Context, *AdminLoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
	GetDay(context.Context, *DayRequest) (*DayResponse, error)
	GetCompliance(context.Context, *RangeRequest) (*ComplianceResponse, error)
	ValidateDayEdits(context.Context, *ValidateRequest) (*ValidateResponse, error)
	ProposeNextEvents(context.Context, *ProposeRequest) (*ProposeResponse, error)
	CommitDayEdits(context.Context, *CommitRequest) (*CommitResponse, error)
	Clock(context.Context, *ClockRequest) (*ClockResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	OpenDays(context.Context, *RangeRequest) (*OpenDaysResponse, error)
	ExportCompliance(context.Context, *RangeRequest) (*ExportResponse, error)
}

func unary[Req, Resp any](method string, call func(AttendanceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AttendanceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AttendanceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes punchclock.Attendance for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AttendanceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, AttendanceServer.Ping),
		unary(MethodLogin, AttendanceServer.Login),
		unary(MethodAdminLogin, AttendanceServer.AdminLogin),
		unary(MethodRefreshToken, AttendanceServer.RefreshToken),
		unary(MethodGetDay, AttendanceServer.GetDay),
		unary(MethodGetCompliance, AttendanceServer.GetCompliance),
		unary(MethodValidateDayEdits, AttendanceServer.ValidateDayEdits),
		unary(MethodProposeNextEvents, AttendanceServer.ProposeNextEvents),
		unary(MethodCommitDayEdits, AttendanceServer.CommitDayEdits),
		unary(MethodClock, AttendanceServer.Clock),
		unary(MethodStatus, AttendanceServer.Status),
		unary(MethodHistory, AttendanceServer.History),
		unary(MethodOpenDays, AttendanceServer.OpenDays),
		unary(MethodExportCompliance, AttendanceServer.ExportCompliance),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "punchclock/attendance",
}

// RegisterAttendanceServer attaches srv to s.
func RegisterAttendanceServer(s grpc.ServiceRegistrar, srv AttendanceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

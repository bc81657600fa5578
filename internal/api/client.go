package api

import (
	"context"

	"google.golang.org/grpc"
)

// AttendanceClient calls punchclock.Attendance over any gRPC connection,
// always with the JSON content-subtype.
type AttendanceClient struct {
	cc grpc.ClientConnInterface
}

func NewAttendanceClient(cc grpc.ClientConnInterface) *AttendanceClient {
	return &AttendanceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *AttendanceClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AttendanceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c, MethodPing, in, opts)
}

func (c *AttendanceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c, MethodLogin, in, opts)
}

func (c *AttendanceClient) AdminLogin(ctx context.Context, in *AdminLoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c, MethodAdminLogin, in, opts)
}

func (c *AttendanceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c, MethodRefreshToken, in, opts)
}

func (c *AttendanceClient) GetDay(ctx context.Context, in *DayRequest, opts ...grpc.CallOption) (*DayResponse, error) {
	return invoke[DayResponse](ctx, c, MethodGetDay, in, opts)
}

func (c *AttendanceClient) GetCompliance(ctx context.Context, in *RangeRequest, opts ...grpc.CallOption) (*ComplianceResponse, error) {
	return invoke[ComplianceResponse](ctx, c, MethodGetCompliance, in, opts)
}

func (c *AttendanceClient) ValidateDayEdits(ctx context.Context, in *ValidateRequest, opts ...grpc.CallOption) (*ValidateResponse, error) {
	return invoke[ValidateResponse](ctx, c, MethodValidateDayEdits, in, opts)
}

func (c *AttendanceClient) ProposeNextEvents(ctx context.Context, in *ProposeRequest, opts ...grpc.CallOption) (*ProposeResponse, error) {
	return invoke[ProposeResponse](ctx, c, MethodProposeNextEvents, in, opts)
}

func (c *AttendanceClient) CommitDayEdits(ctx context.Context, in *CommitRequest, opts ...grpc.CallOption) (*CommitResponse, error) {
	return invoke[CommitResponse](ctx, c, MethodCommitDayEdits, in, opts)
}

func (c *AttendanceClient) Clock(ctx context.Context, in *ClockRequest, opts ...grpc.CallOption) (*ClockResponse, error) {
	return invoke[ClockResponse](ctx, c, MethodClock, in, opts)
}

func (c *AttendanceClient) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c, MethodStatus, in, opts)
}

func (c *AttendanceClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c, MethodHistory, in, opts)
}

func (c *AttendanceClient) OpenDays(ctx context.Context, in *RangeRequest, opts ...grpc.CallOption) (*OpenDaysResponse, error) {
	return invoke[OpenDaysResponse](ctx, c, MethodOpenDays, in, opts)
}

func (c *AttendanceClient) ExportCompliance(ctx context.Context, in *RangeRequest, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c, MethodExportCompliance, in, opts)
}

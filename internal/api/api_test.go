package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeServer struct {
	AttendanceServer
	lastCommit *CommitRequest
}

func (f *fakeServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (f *fakeServer) CommitDayEdits(_ context.Context, in *CommitRequest) (*CommitResponse, error) {
	f.lastCommit = in
	return &CommitResponse{Created: len(in.Events), Events: in.Events}, nil
}

func (f *fakeServer) Clock(context.Context, *ClockRequest) (*ClockResponse, error) {
	return nil, status.Error(codes.FailedPrecondition, "exit cannot follow break-start with no intervening break-end")
}

func dial(t *testing.T, srv AttendanceServer, interceptors ...grpc.UnaryServerInterceptor) *AttendanceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterAttendanceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewAttendanceClient(conn)
}

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)

	b, err := c.Marshal(&ClockRequest{Type: attendance.BreakStart})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"BREAK_START"}`, string(b))

	var out ClockRequest
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, attendance.BreakStart, out.Type)
	require.NoError(t, c.Unmarshal(nil, &out))
}

func TestRoundTrip(t *testing.T) {
	fs := &fakeServer{}
	client := dial(t, fs)
	ctx := context.Background()

	pong, err := client.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	day := timex.Date{Year: 2025, Month: time.November, Day: 3}
	events := []attendance.Event{
		{ID: 4, Type: attendance.ClockIn, Timestamp: day.At(9, 0, time.UTC)},
		{TempID: "new-a", Type: attendance.ClockOut, Timestamp: day.At(17, 0, time.UTC)},
	}
	resp, err := client.CommitDayEdits(ctx, &CommitRequest{UserID: 7, Date: day, Events: events})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)

	require.NotNil(t, fs.lastCommit)
	assert.Equal(t, day, fs.lastCommit.Date)
	assert.Equal(t, int64(7), fs.lastCommit.UserID)
	require.Len(t, fs.lastCommit.Events, 2)
	assert.Equal(t, "new-a", fs.lastCommit.Events[1].TempID)
	assert.True(t, events[0].Timestamp.Equal(fs.lastCommit.Events[0].Timestamp))
}

func TestStatusErrorsPropagate(t *testing.T) {
	client := dial(t, &fakeServer{})
	_, err := client.Clock(context.Background(), &ClockRequest{Type: attendance.ClockOut})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestInterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	record := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return h(ctx, req)
	}
	client := dial(t, &fakeServer{}, record)

	_, err := client.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/punchclock.Attendance/Ping"}, seen)
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic(FullMethod(MethodLogin)))
	assert.True(t, IsPublic(FullMethod(MethodRefreshToken)))
	assert.False(t, IsPublic(FullMethod(MethodCommitDayEdits)))
	assert.False(t, IsPublic("/other.Service/Ping"))
}

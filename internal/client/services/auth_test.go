package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/client/repositories/metadata"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, fc *fakeClient) (AuthService, metadata.Repository) {
	t.Helper()
	meta := metadata.NewSQLiteRepository(setupDB(t))
	return NewAuthService(fc, meta), meta
}

func TestLogin_RemembersUserID(t *testing.T) {
	fc := &fakeClient{session: &client.Session{UserID: 7, Name: "Ana", Role: "USER"}}
	svc, meta := newAuth(t, fc)
	ctx := context.Background()

	require.Equal(t, int64(0), svc.LastUserID(ctx))

	sess, err := svc.Login(ctx, 7, "1234")
	require.NoError(t, err)
	require.Equal(t, "Ana", sess.Name)

	v, err := meta.Get(ctx, metadata.KeyLastUserID)
	require.NoError(t, err)
	require.Equal(t, []byte("7"), v)
	require.Equal(t, int64(7), svc.LastUserID(ctx))
}

func TestLogin_ErrorWrapped(t *testing.T) {
	fc := &fakeClient{loginErr: client.ErrUnauthorized}
	svc, _ := newAuth(t, fc)

	_, err := svc.Login(context.Background(), 7, "0000")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.True(t, strings.HasPrefix(err.Error(), "login error:"))
	require.Equal(t, int64(0), svc.LastUserID(context.Background()))
}

func TestAdminLogin_RemembersUsername(t *testing.T) {
	fc := &fakeClient{session: &client.Session{UserID: 1, Name: "Root", Role: "ADMIN"}}
	svc, _ := newAuth(t, fc)
	ctx := context.Background()

	_, err := svc.AdminLogin(ctx, "root", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "root", svc.LastAdmin(ctx))
}

func TestLastUserID_Garbage(t *testing.T) {
	svc, meta := newAuth(t, &fakeClient{})
	ctx := context.Background()

	require.NoError(t, meta.Set(ctx, metadata.KeyLastUserID, []byte("abc")))
	require.Equal(t, int64(0), svc.LastUserID(ctx))
}

func TestLogout_Ping_Close(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newAuth(t, fc)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx))
	require.True(t, fc.loggedOut)
	require.NoError(t, svc.Ping(ctx))
	require.NoError(t, svc.Close(ctx))

	fc.pingErr = errors.New("down")
	fc.closeErr = errors.New("io")
	require.Error(t, svc.Ping(ctx))
	require.Error(t, svc.Close(ctx))
}

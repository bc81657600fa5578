// Package services contains application services for the punchclock client.
// This file defines the authentication service: PIN and admin login, the
// liveness probe, and the settings remembered between runs.
package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/client/repositories/metadata"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate an employee by id and PIN and remember the id.
//   - AdminLogin: authenticate an admin by username and password.
//   - LastUserID / LastAdmin: what to prefill in the login prompts.
//   - Logout: drop the tokens held by the client.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, userID int64, pin string) (*client.Session, error)
	AdminLogin(ctx context.Context, username, password string) (*client.Session, error)
	LastUserID(ctx context.Context) int64
	LastAdmin(ctx context.Context) string
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	metadata metadata.Repository
}

// NewAuthService constructs an AuthService bound to the given API client and
// local settings store.
func NewAuthService(client client.Client, metadata metadata.Repository) AuthService {
	return &authService{client: client, metadata: metadata}
}

func (a *authService) Login(ctx context.Context, userID int64, pin string) (*client.Session, error) {
	sess, err := a.client.Login(ctx, userID, pin)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.metadata.Set(ctx, metadata.KeyLastUserID, []byte(strconv.FormatInt(sess.UserID, 10))); err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}
	return sess, nil
}

func (a *authService) AdminLogin(ctx context.Context, username, password string) (*client.Session, error) {
	sess, err := a.client.AdminLogin(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.metadata.Set(ctx, metadata.KeyLastAdmin, []byte(username)); err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}
	return sess, nil
}

// LastUserID returns 0 when nothing usable is stored.
func (a *authService) LastUserID(ctx context.Context) int64 {
	v, err := a.metadata.Get(ctx, metadata.KeyLastUserID)
	if err != nil || v == nil {
		return 0
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (a *authService) LastAdmin(ctx context.Context) string {
	v, err := a.metadata.Get(ctx, metadata.KeyLastAdmin)
	if err != nil {
		return ""
	}
	return string(v)
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

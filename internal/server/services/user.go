package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/cryptox"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/logging"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	"github.com/dmitrijs2005/punchclock/internal/server/config"
	"github.com/dmitrijs2005/punchclock/internal/server/models"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token
// together with who they were issued to.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Name         string
	Role         string
}

// UserService provides authentication-related operations:
// - Login: employees by user id and PIN
// - AdminLogin: admins by username and password
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		log:                          log.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return common.ErrorInternal
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Login authenticates an employee by id and PIN.
func (s *UserService) Login(ctx context.Context, userID int64, pin string) (*TokenPair, error) {
	if userID <= 0 || pin == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !s.checkSecret(ctx, user.PINHash, pin) {
		return nil, common.ErrorUnauthorized
	}

	s.purgeExpired(ctx, user.ID)
	return s.generateTokenPair(ctx, user, s.db)
}

// AdminLogin authenticates an admin by username and password. Accounts that
// are not admins are refused even with the right password.
func (s *UserService) AdminLogin(ctx context.Context, username, password string) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.IsAdmin() || !s.checkSecret(ctx, user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	s.purgeExpired(ctx, user.ID)
	return s.generateTokenPair(ctx, user, s.db)
}

// --- helpers below ---

func (s *UserService) checkSecret(ctx context.Context, hash, candidate string) bool {
	if hash == "" {
		return false
	}
	ok, err := cryptox.VerifySecret(hash, candidate)
	if err != nil {
		s.log.Warn(ctx, "stored secret hash is malformed", "error", err)
		return false
	}
	return ok
}

// purgeExpired is best effort: a failure only leaves stale rows behind.
func (s *UserService) purgeExpired(ctx context.Context, userID int64) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, userID, s.now())
	if err != nil {
		s.log.Warn(ctx, "purging expired refresh tokens failed", "user_id", userID, "error", err)
		return
	}
	if n > 0 {
		s.log.Debug(ctx, "purged expired refresh tokens", "user_id", userID, "count", n)
	}
}

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(auth.Identity{UserID: user.ID, Role: user.Role}, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Name:         user.Name,
		Role:         user.Role,
	}, nil
}

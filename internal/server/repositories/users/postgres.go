package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `
	SELECT id, name, email, username, pin_hash, password_hash, role, schedule_plan_id
	FROM users
`

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = $1`, username)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user     models.User
		username sql.NullString
		planID   sql.NullInt64
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &username,
		&user.PINHash, &user.PasswordHash, &user.Role, &planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Username = username.String
	if planID.Valid {
		user.SchedulePlanID = &planID.Int64
	}
	return &user, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return fmt.Errorf("%w: user id is required", common.ErrInvalidInput)
	}

	query := `
		INSERT INTO users (id, name, email, username, pin_hash, password_hash, role, schedule_plan_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			pin_hash = EXCLUDED.pin_hash,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			schedule_plan_id = EXCLUDED.schedule_plan_id
	`

	username := sql.NullString{String: user.Username, Valid: user.Username != ""}
	var planID sql.NullInt64
	if user.SchedulePlanID != nil {
		planID = sql.NullInt64{Int64: *user.SchedulePlanID, Valid: true}
	}

	role := user.Role
	if role == "" {
		role = common.RoleEmployee
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, username,
		user.PINHash, user.PasswordHash, role, planID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

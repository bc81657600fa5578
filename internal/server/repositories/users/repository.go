package users

import (
	"context"

	"github.com/dmitrijs2005/punchclock/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Upsert inserts the user under its explicit id or overwrites the
	// existing row with that id.
	Upsert(ctx context.Context, user *models.User) error
}

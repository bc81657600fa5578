package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/punchclock/internal/client/migrations"
	"github.com/dmitrijs2005/punchclock/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/punchclock/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"
)

type Repositories struct {
	Metadata metadata.Repository
	Drafts   drafts.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Drafts:   drafts.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	// Set the database dialect
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/punchclock/internal/dbx"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/events"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/schedules"
	"github.com/dmitrijs2005/punchclock/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Events(db dbx.DBTX) events.Repository
	Schedules(db dbx.DBTX) schedules.Repository
}

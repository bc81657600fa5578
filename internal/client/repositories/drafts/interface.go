package drafts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// Info describes a stored draft without decoding it.
type Info struct {
	UserID    int64
	Day       timex.Date
	UpdatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, snap attendance.Snapshot) error
	Get(ctx context.Context, userID int64, day timex.Date) (*attendance.Snapshot, error)
	Delete(ctx context.Context, userID int64, day timex.Date) error
	List(ctx context.Context) ([]Info, error)
}

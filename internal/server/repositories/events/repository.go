// Package events declares the attendance event store contract and its
// PostgreSQL implementation.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
)

// Repository stores attendance events per user. Timestamps are kept at
// second precision.
type Repository interface {
	// ListRange returns the user's events with from <= ts < to, oldest first.
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]attendance.Event, error)

	// Latest returns up to limit of the user's most recent events, newest first.
	Latest(ctx context.Context, userID int64, limit int) ([]attendance.Event, error)

	// Create inserts e and returns it with its assigned id.
	Create(ctx context.Context, userID int64, e attendance.Event) (attendance.Event, error)

	// Update rewrites type and time of an existing event. Missing events
	// yield common.ErrorNotFound.
	Update(ctx context.Context, userID int64, e attendance.Event) error

	// Delete removes an event. Missing events yield common.ErrorNotFound.
	Delete(ctx context.Context, userID int64, id int64) error
}

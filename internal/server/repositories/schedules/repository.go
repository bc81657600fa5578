// Package schedules stores weekly schedule plans and resolves the plan a user
// is assigned to.
package schedules

import (
	"context"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
)

type Repository interface {
	// GetForUser returns the user's plan, or nil when none is assigned.
	GetForUser(ctx context.Context, userID int64) (*attendance.SchedulePlan, error)

	// GetByName returns the named plan or common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*attendance.SchedulePlan, error)

	// Upsert creates or replaces a plan by name and returns its id.
	Upsert(ctx context.Context, plan *attendance.SchedulePlan) (int64, error)
}

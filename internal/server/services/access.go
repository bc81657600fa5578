package services

import (
	"fmt"

	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// resolveTarget returns the user an operation acts on. Zero means the caller.
// Employees may only act on themselves; admins on anyone.
func resolveTarget(caller auth.Identity, userID int64) (int64, error) {
	if caller.UserID == 0 {
		return 0, common.ErrorUnauthorized
	}
	if userID == 0 || userID == caller.UserID {
		return caller.UserID, nil
	}
	if userID < 0 {
		return 0, fmt.Errorf("%w: user id %d", common.ErrInvalidInput, userID)
	}
	if !caller.IsAdmin() {
		return 0, common.ErrForbidden
	}
	return userID, nil
}

func requireDate(name string, d timex.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: %s date is required", common.ErrInvalidInput, name)
	}
	return nil
}

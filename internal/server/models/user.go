// Package models holds the server's persistence records that have no home in
// the attendance engine.
package models

import "github.com/dmitrijs2005/punchclock/internal/common"

// User is an account that records attendance. Employees authenticate with a
// PIN; admins with username and password.
type User struct {
	ID             int64
	Name           string
	Email          string
	Username       string
	PINHash        string
	PasswordHash   string
	Role           string
	SchedulePlanID *int64
}

func (u *User) IsAdmin() bool {
	return u.Role == common.RoleAdmin
}

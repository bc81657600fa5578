// Package metadata is a small key/value store in the client's local database
// for settings remembered between runs.
package metadata

import (
	"context"
)

// Keys written by the client.
const (
	// KeyLastUserID is the employee id of the last successful PIN login.
	KeyLastUserID = "last_user_id"
	// KeyLastAdmin is the username of the last successful admin login.
	KeyLastAdmin = "last_admin"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

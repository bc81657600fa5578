package services

import (
	"testing"

	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/server/auth"
	"github.com/stretchr/testify/assert"
)

func TestResolveTarget(t *testing.T) {
	employee := auth.Identity{UserID: 7, Role: common.RoleEmployee}
	admin := auth.Identity{UserID: 1, Role: common.RoleAdmin}

	tests := []struct {
		name    string
		caller  auth.Identity
		userID  int64
		want    int64
		wantErr error
	}{
		{"self by zero", employee, 0, 7, nil},
		{"self explicit", employee, 7, 7, nil},
		{"employee on other", employee, 8, 0, common.ErrForbidden},
		{"admin on other", admin, 8, 8, nil},
		{"negative id", admin, -3, 0, common.ErrInvalidInput},
		{"anonymous", auth.Identity{}, 7, 0, common.ErrorUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTarget(tt.caller, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deniz/communityevents/internal/app/models"
)

func TestCanModify(t *testing.T) {
	tests := []struct {
		name        string
		ownerID     int64
		requesterID int64
		role        models.RoleType
		want        bool
	}{
		{"owner can modify own resource", 1, 1, models.RoleMember, true},
		{"other member cannot modify", 1, 2, models.RoleMember, false},
		{"host cannot modify others resource", 1, 2, models.RoleHost, false},
		{"admin can modify others resource", 1, 2, models.RoleAdmin, true},
		{"admin owner can modify own resource", 5, 5, models.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.ownerID, tt.requesterID, tt.role))
		})
	}
}

package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rohits-web03/cardealer/internal/models"
)

func TestCanAccessListing(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		claims *Claims
		want   bool
	}{
		{"owner vendor", &Claims{UserID: owner.String(), Role: models.RoleVendor}, true},
		{"other vendor", &Claims{UserID: other.String(), Role: models.RoleVendor}, false},
		{"admin", &Claims{UserID: other.String(), Role: models.RoleAdmin}, true},
		{"nil claims", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessListing(tt.claims, owner))
		})
	}
}

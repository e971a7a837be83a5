package auth

import (
	"github.com/google/uuid"

	"github.com/rohits-web03/cardealer/internal/models"
)

// CanAccessListing reports whether the session may read, mutate or delete a
// listing owned by vendorID. Admins have blanket access; vendors are
// restricted to their own listings.
func CanAccessListing(claims *Claims, vendorID uuid.UUID) bool {
	if claims == nil {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	return claims.UserID == vendorID.String()
}

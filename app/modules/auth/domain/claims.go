package authdomain

import (
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
)

// Claims represents the domain model for authentication claims.
type Claims struct {
	UserID    uuid.UUID
	ClubID    uuid.UUID
	Role      clubdomain.Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

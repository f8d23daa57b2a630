package authjwt

import (
	"time"

	authdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/domain"
)

// Provider signs and verifies member bearer tokens.
type Provider interface {
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)
	// ValidateToken rejects tokens from other issuers or signed with another key.
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}

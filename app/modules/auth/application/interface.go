package authservice

import (
	"context"

	authdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/domain"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
)

// Service defines the authentication service interface.
type Service interface {
	// IssueToken mints a bearer token for an existing member.
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)

	// Authenticate validates a bearer token and resolves the caller's
	// current club and role.
	Authenticate(ctx context.Context, tokenString string) (*authdomain.Claims, clubdomain.Actor, error)
}

// ActorResolver loads a member's current club and role.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error)
}

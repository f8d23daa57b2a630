package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/domain"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
)

// ------------------------
// Fake JWT Provider
// ------------------------

type FakeJWTProvider struct {
	trace []string

	GenerateTokenFunc func(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*authdomain.Claims, error)
}

func (f *FakeJWTProvider) Trace() []string {
	return f.trace
}

func (f *FakeJWTProvider) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeJWTProvider) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	f.record("GenerateToken")
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(claims, ttl)
	}
	return "fake-token", nil
}

func (f *FakeJWTProvider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	f.record("ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &authdomain.Claims{
		UserID: uuid.New(),
		Role:   clubdomain.RolePathfinder,
	}, nil
}

// ------------------------
// Fake Actor Resolver
// ------------------------

type FakeActorResolver struct {
	trace []string

	ResolveActorFunc func(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error)
}

func (f *FakeActorResolver) Trace() []string {
	return f.trace
}

func (f *FakeActorResolver) ResolveActor(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error) {
	f.trace = append(f.trace, "ResolveActor")
	if f.ResolveActorFunc != nil {
		return f.ResolveActorFunc(ctx, userID)
	}
	return clubdomain.Actor{UserID: userID, Role: clubdomain.RolePathfinder}, nil
}

package authdomain

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	actorKey
)

// WithClaims stores validated token claims on ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// WithActor stores the resolved caller on ctx.
func WithActor(ctx context.Context, a clubdomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromContext returns the caller stored by WithActor.
func ActorFromContext(ctx context.Context) (clubdomain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(clubdomain.Actor)
	return a, ok
}

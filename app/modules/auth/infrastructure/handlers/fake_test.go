package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/domain"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
)

// FakeService is a programmable fake for authservice.Service.
type FakeService struct {
	trace []string

	IssueTokenFunc   func(ctx context.Context, userID uuid.UUID) (string, error)
	AuthenticateFunc func(ctx context.Context, tokenString string) (*authdomain.Claims, clubdomain.Actor, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	f.record("IssueToken")
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(ctx, userID)
	}
	return "fake-token", nil
}

func (f *FakeService) Authenticate(ctx context.Context, tokenString string) (*authdomain.Claims, clubdomain.Actor, error) {
	f.record("Authenticate")
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, tokenString)
	}
	return nil, clubdomain.Actor{}, authservice.ErrInvalidToken
}

var _ authservice.Service = (*FakeService)(nil)

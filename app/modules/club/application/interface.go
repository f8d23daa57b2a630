package clubservice

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service is the club roster API.
type Service interface {
	CreateClub(ctx context.Context, actor clubdomain.Actor, name, region string) (*clubdb.Club, error)
	GetClub(ctx context.Context, clubID uuid.UUID) (*clubdb.Club, error)
	ListMembers(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]clubdb.User, error)
	AddMember(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID, member NewMember) (*clubdb.User, error)
	UpdateMemberRole(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, role clubdomain.Role) (*clubdb.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*clubdb.User, error)
	ResolveActor(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error)
}

// NewMember is the input to AddMember.
type NewMember struct {
	Name     string
	Email    string
	Role     clubdomain.Role
	DbvClass *string
}

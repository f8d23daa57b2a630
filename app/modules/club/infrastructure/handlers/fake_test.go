package clubhandlers

import (
	"context"

	clubservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/application"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/google/uuid"
)

// FakeService is a programmable fake for clubservice.Service.
type FakeService struct {
	trace []string

	CreateClubFunc       func(ctx context.Context, actor clubdomain.Actor, name, region string) (*clubdb.Club, error)
	GetClubFunc          func(ctx context.Context, clubID uuid.UUID) (*clubdb.Club, error)
	ListMembersFunc      func(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]clubdb.User, error)
	AddMemberFunc        func(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID, member clubservice.NewMember) (*clubdb.User, error)
	UpdateMemberRoleFunc func(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, role clubdomain.Role) (*clubdb.User, error)
	GetUserFunc          func(ctx context.Context, userID uuid.UUID) (*clubdb.User, error)
	ResolveActorFunc     func(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	return f.trace
}

func (f *FakeService) CreateClub(ctx context.Context, actor clubdomain.Actor, name, region string) (*clubdb.Club, error) {
	f.record("CreateClub")
	if f.CreateClubFunc != nil {
		return f.CreateClubFunc(ctx, actor, name, region)
	}
	return &clubdb.Club{ID: uuid.New(), Name: name, Region: region}, nil
}

func (f *FakeService) GetClub(ctx context.Context, clubID uuid.UUID) (*clubdb.Club, error) {
	f.record("GetClub")
	if f.GetClubFunc != nil {
		return f.GetClubFunc(ctx, clubID)
	}
	return nil, apperr.NotFound("club not found")
}

func (f *FakeService) ListMembers(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]clubdb.User, error) {
	f.record("ListMembers")
	if f.ListMembersFunc != nil {
		return f.ListMembersFunc(ctx, actor, clubID)
	}
	return nil, nil
}

func (f *FakeService) AddMember(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID, member clubservice.NewMember) (*clubdb.User, error) {
	f.record("AddMember")
	if f.AddMemberFunc != nil {
		return f.AddMemberFunc(ctx, actor, clubID, member)
	}
	return &clubdb.User{ID: uuid.New(), ClubID: &clubID, Name: member.Name, Email: member.Email, Role: member.Role}, nil
}

func (f *FakeService) UpdateMemberRole(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, role clubdomain.Role) (*clubdb.User, error) {
	f.record("UpdateMemberRole")
	if f.UpdateMemberRoleFunc != nil {
		return f.UpdateMemberRoleFunc(ctx, actor, userID, role)
	}
	return &clubdb.User{ID: userID, Role: role}, nil
}

func (f *FakeService) GetUser(ctx context.Context, userID uuid.UUID) (*clubdb.User, error) {
	f.record("GetUser")
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, userID)
	}
	return &clubdb.User{ID: userID, Role: clubdomain.RolePathfinder}, nil
}

func (f *FakeService) ResolveActor(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error) {
	f.record("ResolveActor")
	if f.ResolveActorFunc != nil {
		return f.ResolveActorFunc(ctx, userID)
	}
	return clubdomain.Actor{UserID: userID}, nil
}

var _ clubservice.Service = (*FakeService)(nil)

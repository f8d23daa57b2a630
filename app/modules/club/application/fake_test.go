package clubservice

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	trace []string

	CreateClubFunc            func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	GetClubFunc               func(ctx context.Context, db bun.IDB, clubID uuid.UUID) (*clubdb.Club, error)
	CreateUserFunc            func(ctx context.Context, db bun.IDB, user *clubdb.User) error
	GetUserFunc               func(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error)
	LockUserFunc              func(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error)
	ListClubMembersFunc       func(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]clubdb.User, error)
	ListClubStaffFunc         func(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]clubdb.User, error)
	ListClubRankingFunc       func(ctx context.Context, db bun.IDB, clubID uuid.UUID, limit int) ([]clubdb.User, error)
	UpdateMembershipFunc      func(ctx context.Context, db bun.IDB, userID uuid.UUID, clubID *uuid.UUID, role clubdomain.Role) error
	AdvanceClassMilestoneFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID, from, to int) (bool, error)
}

func NewFakeClubRepo() *FakeClubRepo {
	return &FakeClubRepo{
		trace: []string{},
	}
}

func (f *FakeClubRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeClubRepo) CreateClub(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("CreateClub")
	if f.CreateClubFunc != nil {
		return f.CreateClubFunc(ctx, db, club)
	}
	if club.ID == uuid.Nil {
		club.ID = uuid.New()
	}
	return nil
}

func (f *FakeClubRepo) GetClub(ctx context.Context, db bun.IDB, clubID uuid.UUID) (*clubdb.Club, error) {
	f.record("GetClub")
	if f.GetClubFunc != nil {
		return f.GetClubFunc(ctx, db, clubID)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) CreateUser(ctx context.Context, db bun.IDB, user *clubdb.User) error {
	f.record("CreateUser")
	if f.CreateUserFunc != nil {
		return f.CreateUserFunc(ctx, db, user)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return nil
}

func (f *FakeClubRepo) GetUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error) {
	f.record("GetUser")
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, db, userID)
	}
	return nil, clubdb.ErrUserNotFound
}

func (f *FakeClubRepo) LockUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*clubdb.User, error) {
	f.record("LockUser")
	if f.LockUserFunc != nil {
		return f.LockUserFunc(ctx, db, userID)
	}
	return nil, clubdb.ErrUserNotFound
}

func (f *FakeClubRepo) ListClubMembers(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]clubdb.User, error) {
	f.record("ListClubMembers")
	if f.ListClubMembersFunc != nil {
		return f.ListClubMembersFunc(ctx, db, clubID)
	}
	return nil, nil
}

func (f *FakeClubRepo) ListClubStaff(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]clubdb.User, error) {
	f.record("ListClubStaff")
	if f.ListClubStaffFunc != nil {
		return f.ListClubStaffFunc(ctx, db, clubID)
	}
	return nil, nil
}

func (f *FakeClubRepo) ListClubRanking(ctx context.Context, db bun.IDB, clubID uuid.UUID, limit int) ([]clubdb.User, error) {
	f.record("ListClubRanking")
	if f.ListClubRankingFunc != nil {
		return f.ListClubRankingFunc(ctx, db, clubID, limit)
	}
	return nil, nil
}

func (f *FakeClubRepo) UpdateMembership(ctx context.Context, db bun.IDB, userID uuid.UUID, clubID *uuid.UUID, role clubdomain.Role) error {
	f.record("UpdateMembership")
	if f.UpdateMembershipFunc != nil {
		return f.UpdateMembershipFunc(ctx, db, userID, clubID, role)
	}
	return nil
}

func (f *FakeClubRepo) AdvanceClassMilestone(ctx context.Context, db bun.IDB, userID uuid.UUID, from, to int) (bool, error) {
	f.record("AdvanceClassMilestone")
	if f.AdvanceClassMilestoneFunc != nil {
		return f.AdvanceClassMilestoneFunc(ctx, db, userID, from, to)
	}
	return to > from, nil
}

// --- Accessors for assertions ---

func (f *FakeClubRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ clubdb.Repository = (*FakeClubRepo)(nil)

package app

import (
	"context"
	"errors"

	clubservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/application"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	specialtyservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/application"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// fakeBackend stands in for every module the seeder writes through.
type fakeBackend struct {
	users        map[uuid.UUID]*clubdb.User
	clubs        []*clubdb.Club
	specialties  []specialtyservice.NewSpecialty
	classReqs    map[string][]string
	tokens       map[uuid.UUID]string
	addMemberErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:     map[uuid.UUID]*clubdb.User{},
		classReqs: map[string][]string{},
		tokens:    map[uuid.UUID]string{},
	}
}

func (f *fakeBackend) CreateUser(ctx context.Context, db bun.IDB, user *clubdb.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeBackend) CreateClub(ctx context.Context, actor clubdomain.Actor, name, region string) (*clubdb.Club, error) {
	if actor.HasClub() {
		return nil, errors.New("already in a club")
	}
	club := &clubdb.Club{ID: uuid.New(), Name: name, Region: region}
	f.clubs = append(f.clubs, club)
	u := f.users[actor.UserID]
	u.ClubID, u.Role = &club.ID, clubdomain.RoleOwner
	return club, nil
}

func (f *fakeBackend) AddMember(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID, m clubservice.NewMember) (*clubdb.User, error) {
	if f.addMemberErr != nil {
		return nil, f.addMemberErr
	}
	if !actor.CanManage(clubID) {
		return nil, errors.New("forbidden")
	}
	u := &clubdb.User{ID: uuid.New(), ClubID: &clubID, Name: m.Name, Email: m.Email, Role: m.Role, DbvClass: m.DbvClass}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeBackend) CreateSpecialty(ctx context.Context, actor clubdomain.Actor, in specialtyservice.NewSpecialty) (*specialtydb.Specialty, error) {
	f.specialties = append(f.specialties, in)
	return &specialtydb.Specialty{ID: uuid.New(), Code: in.Code, Name: in.Name}, nil
}

func (f *fakeBackend) AddClassRequirement(ctx context.Context, actor clubdomain.Actor, dbvClass string, in specialtyservice.NewRequirement) (*specialtydb.Requirement, error) {
	f.classReqs[dbvClass] = append(f.classReqs[dbvClass], in.Description)
	return &specialtydb.Requirement{ID: uuid.New(), Description: in.Description}, nil
}

func (f *fakeBackend) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token := "token-" + userID.String()
	f.tokens[userID] = token
	return token, nil
}

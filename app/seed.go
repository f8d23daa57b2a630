package app

import (
	"context"
	"fmt"
	"strings"

	clubservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/application"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	specialtyservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/application"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SeedOptions sizes the demo club.
type SeedOptions struct {
	ClubName    string
	Pathfinders int
}

// SeededMember is a created member with a ready-to-use bearer token.
type SeededMember struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  clubdomain.Role
	Token string
}

// SeedResult describes what the seeder created.
type SeedResult struct {
	ClubID      uuid.UUID
	Members     []SeededMember
	Specialties int
}

type userCreator interface {
	CreateUser(ctx context.Context, db bun.IDB, user *clubdb.User) error
}

type clubCreator interface {
	CreateClub(ctx context.Context, actor clubdomain.Actor, name, region string) (*clubdb.Club, error)
	AddMember(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID, member clubservice.NewMember) (*clubdb.User, error)
}

type catalogWriter interface {
	CreateSpecialty(ctx context.Context, actor clubdomain.Actor, in specialtyservice.NewSpecialty) (*specialtydb.Specialty, error)
	AddClassRequirement(ctx context.Context, actor clubdomain.Actor, dbvClass string, in specialtyservice.NewRequirement) (*specialtydb.Requirement, error)
}

type tokenIssuer interface {
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)
}

// Seeder fills an empty database with a demo club.
type Seeder struct {
	users       userCreator
	clubs       clubCreator
	specialties catalogWriter
	tokens      tokenIssuer
	faker       *gofakeit.Faker
}

// NewSeeder wires a seeder to the application's modules.
func NewSeeder(a *App, seed uint64) *Seeder {
	return &Seeder{
		users:       a.Modules.Club.Repo,
		clubs:       a.Modules.Club.Service,
		specialties: a.Modules.Specialty.Service,
		tokens:      a.Modules.Auth.Service(),
		faker:       gofakeit.New(seed),
	}
}

type seedSpecialty struct {
	code, name, area string
	requirements     []string
}

var demoSpecialties = []seedSpecialty{
	{"AD-001", "Camping Skills I", "Outdoor", []string{
		"Describe the clothing to bring on a weekend campout",
		"Pitch a tent and explain how to choose a campsite",
		"Cook a simple meal over a fire",
	}},
	{"NA-014", "Birds", "Nature", []string{
		"Identify ten birds in the field",
		"Upload a photo or drawing of a nest",
	}},
	{"HM-002", "First Aid", "Health", []string{
		"Explain how to treat a minor burn",
		"Demonstrate the recovery position",
		"Assemble a personal first aid kit",
		"Describe when to call emergency services",
	}},
}

var demoClass = struct {
	name         string
	requirements []string
}{
	name: "Friend",
	requirements: []string{
		"Memorize the Pathfinder pledge and law",
		"Read the book of Mark",
		"Complete one specialty in nature study",
		"Take part in a community service project",
	},
}

// Seed creates an owner, an instructor and opts.Pathfinders members, a small
// specialty catalog and one class checklist.
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.ClubName == "" {
		opts.ClubName = s.faker.Address().City + " Pathfinders"
	}

	owner := &clubdb.User{
		Name:  s.faker.Name(),
		Email: s.email(),
		Role:  clubdomain.RolePathfinder,
	}
	if err := s.users.CreateUser(ctx, nil, owner); err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}
	club, err := s.clubs.CreateClub(ctx, owner.Actor(), opts.ClubName, s.faker.Address().State)
	if err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}
	ownerActor := clubdomain.Actor{UserID: owner.ID, ClubID: club.ID, Role: clubdomain.RoleOwner}

	res := &SeedResult{ClubID: club.ID}
	if err := s.addSeeded(ctx, res, owner.ID, owner.Name, owner.Email, clubdomain.RoleOwner); err != nil {
		return nil, err
	}

	friend := demoClass.name
	members := []clubservice.NewMember{{Name: s.faker.Name(), Email: s.email(), Role: clubdomain.RoleInstructor}}
	for i := 0; i < opts.Pathfinders; i++ {
		members = append(members, clubservice.NewMember{
			Name:     s.faker.Name(),
			Email:    s.email(),
			Role:     clubdomain.RolePathfinder,
			DbvClass: &friend,
		})
	}
	for _, m := range members {
		user, err := s.clubs.AddMember(ctx, ownerActor, club.ID, m)
		if err != nil {
			return nil, fmt.Errorf("add member %s: %w", m.Email, err)
		}
		if err := s.addSeeded(ctx, res, user.ID, user.Name, user.Email, user.Role); err != nil {
			return nil, err
		}
	}

	for _, sp := range demoSpecialties {
		in := specialtyservice.NewSpecialty{Code: sp.code, Name: sp.name, Area: sp.area}
		for i, d := range sp.requirements {
			typ := specialtydomain.RequirementText
			if i == len(sp.requirements)-1 && strings.HasPrefix(d, "Upload") {
				typ = specialtydomain.RequirementFile
			}
			in.Requirements = append(in.Requirements, specialtyservice.NewRequirement{Description: d, Type: typ})
		}
		if _, err := s.specialties.CreateSpecialty(ctx, ownerActor, in); err != nil {
			return nil, fmt.Errorf("create specialty %s: %w", sp.code, err)
		}
		res.Specialties++
	}

	for _, d := range demoClass.requirements {
		if _, err := s.specialties.AddClassRequirement(ctx, ownerActor, demoClass.name, specialtyservice.NewRequirement{
			Description: d,
			Type:        specialtydomain.RequirementText,
		}); err != nil {
			return nil, fmt.Errorf("add class requirement: %w", err)
		}
	}
	return res, nil
}

func (s *Seeder) addSeeded(ctx context.Context, res *SeedResult, id uuid.UUID, name, email string, role clubdomain.Role) error {
	token, err := s.tokens.IssueToken(ctx, id)
	if err != nil {
		return fmt.Errorf("issue token for %s: %w", email, err)
	}
	res.Members = append(res.Members, SeededMember{ID: id, Name: name, Email: email, Role: role, Token: token})
	return nil
}

// email avoids collisions with earlier seed runs.
func (s *Seeder) email() string {
	local, domain, _ := strings.Cut(strings.ToLower(s.faker.Email()), "@")
	return fmt.Sprintf("%s.%s@%s", local, s.faker.LetterN(5), domain)
}

//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// TestDataGenerator inserts fixtures straight through the repositories.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	clubs clubdb.Repository
	specs specialtydb.Repository
}

// NewTestDataGenerator builds a generator with a fixed seed so failures reproduce.
func NewTestDataGenerator(db *bun.DB, seed uint64) *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(seed),
		clubs: clubdb.NewRepository(db),
		specs: specialtydb.NewRepository(db),
	}
}

// Club creates a club.
func (g *TestDataGenerator) Club(ctx context.Context, t *testing.T) *clubdb.Club {
	t.Helper()
	club := &clubdb.Club{ID: uuid.New(), Name: g.faker.Address().City + " Pathfinders"}
	require.NoError(t, g.clubs.CreateClub(ctx, nil, club))
	return club
}

// Member creates a member of club with role.
func (g *TestDataGenerator) Member(ctx context.Context, t *testing.T, club *clubdb.Club, role clubdomain.Role) *clubdb.User {
	t.Helper()
	u := &clubdb.User{
		ClubID: &club.ID,
		Name:   g.faker.Name(),
		Email:  fmt.Sprintf("%s@%s.test", uuid.NewString()[:12], g.faker.LetterN(6)),
		Role:   role,
	}
	require.NoError(t, g.clubs.CreateUser(ctx, nil, u))
	return u
}

// ClassRequirements appends n text requirements to dbvClass.
func (g *TestDataGenerator) ClassRequirements(ctx context.Context, t *testing.T, dbvClass string, n int) []uuid.UUID {
	t.Helper()
	class := dbvClass
	next, err := g.specs.NextClassPosition(ctx, nil, dbvClass)
	require.NoError(t, err)

	reqs := make([]specialtydb.Requirement, 0, n)
	for i := 0; i < n; i++ {
		reqs = append(reqs, specialtydb.Requirement{
			ID:          uuid.New(),
			DbvClass:    &class,
			Position:    next + i,
			Description: fmt.Sprintf("%s the %s", g.faker.Verb(), g.faker.Noun()),
			Type:        specialtydomain.RequirementText,
		})
	}
	require.NoError(t, g.specs.CreateRequirements(ctx, nil, reqs))

	ids := make([]uuid.UUID, 0, n)
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	return ids
}

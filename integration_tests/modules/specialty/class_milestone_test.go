//go:build integration

package specialtyintegrationtests

import (
	"sync"
	"testing"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassMilestones_ThroughPostgres(t *testing.T) {
	deps := SetupTestSpecialtyService(t)
	ctx, gen := deps.Ctx, deps.Generator

	club := gen.Club(ctx, t)
	admin := gen.Member(ctx, t, club, clubdomain.RoleAdmin)
	member := gen.Member(ctx, t, club, clubdomain.RolePathfinder)
	reqs := gen.ClassRequirements(ctx, t, "Friend", 4)

	msgs, err := testEnv.Bus.Subscribe(ctx, pointsdomain.TopicPointsAwardedV1)
	require.NoError(t, err)

	approve := func(i int) {
		_, err := deps.Service.SetRequirementStatus(ctx, admin.Actor(), member.ID, reqs[i], specialtydomain.RequirementApproved)
		require.NoError(t, err)
	}

	approve(0)
	user, err := deps.ClubRepo.GetUser(ctx, nil, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, user.Points)
	assert.Equal(t, 25, user.LastClassMilestone)

	approve(1)
	approve(1)
	user, err = deps.ClubRepo.GetUser(ctx, nil, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, user.Points)
	assert.Equal(t, 50, user.LastClassMilestone)

	balance, err := deps.Points.GetBalance(ctx, member.Actor(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, balance.Ledger)
	assert.Zero(t, balance.Drift)

	select {
	case msg := <-msgs:
		payload, err := eventbus.Decode[pointsdomain.PointsAwardedPayloadV1](msg)
		require.NoError(t, err)
		assert.Equal(t, member.ID, payload.UserID)
		msg.Ack()
	case <-time.After(10 * time.Second):
		t.Fatal("no points.awarded event received over NATS")
	}
}

func TestClassMilestones_ConcurrentApprovalsPayOnce(t *testing.T) {
	deps := SetupTestSpecialtyService(t)
	ctx, gen := deps.Ctx, deps.Generator

	club := gen.Club(ctx, t)
	admin := gen.Member(ctx, t, club, clubdomain.RoleAdmin)
	member := gen.Member(ctx, t, club, clubdomain.RolePathfinder)
	reqs := gen.ClassRequirements(ctx, t, "Companion", 4)

	var wg sync.WaitGroup
	errs := make(chan error, len(reqs))
	for _, id := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := deps.Service.SetRequirementStatus(ctx, admin.Actor(), member.ID, id, specialtydomain.RequirementApproved)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	user, err := deps.ClubRepo.GetUser(ctx, nil, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, user.LastClassMilestone)
	assert.Equal(t, 100+200+300+1000, user.Points)
}

func TestSpecialtyAward_ThroughPostgres(t *testing.T) {
	deps := SetupTestSpecialtyService(t)
	ctx, gen := deps.Ctx, deps.Generator

	club := gen.Club(ctx, t)
	admin := gen.Member(ctx, t, club, clubdomain.RoleAdmin)
	member := gen.Member(ctx, t, club, clubdomain.RolePathfinder)

	spec, err := deps.Service.CreateSpecialty(ctx, admin.Actor(), newSpecialty("NA-014", "Birds", 2))
	require.NoError(t, err)
	require.Len(t, spec.Requirements, 2)

	text := "Saw a heron"
	for _, r := range spec.Requirements {
		_, err := deps.Service.SubmitAnswer(ctx, member.Actor(), r.ID, answer(&text))
		require.NoError(t, err)
	}
	pending, err := deps.Service.PendingWork(ctx, admin.Actor(), club.ID)
	require.NoError(t, err)
	assert.Len(t, pending.Requirements, 2)

	for _, r := range spec.Requirements {
		_, err := deps.Service.SetRequirementStatus(ctx, admin.Actor(), member.ID, r.ID, specialtydomain.RequirementApproved)
		require.NoError(t, err)
	}
	pending, err = deps.Service.PendingWork(ctx, admin.Actor(), club.ID)
	require.NoError(t, err)
	assert.Empty(t, pending.Requirements)
	require.Len(t, pending.Specialties, 1)

	us, err := deps.Service.AwardSpecialty(ctx, admin.Actor(), member.ID, spec.ID)
	require.NoError(t, err)
	assert.Equal(t, specialtydomain.SpecialtyCompleted, us.Status)

	_, err = deps.Service.AwardSpecialty(ctx, admin.Actor(), member.ID, spec.ID)
	require.NoError(t, err)

	user, err := deps.ClubRepo.GetUser(ctx, nil, member.ID)
	require.NoError(t, err)
	assert.Equal(t, specialtydomain.SpecialtyAwardBonus, user.Points)

	dashboard, err := deps.Service.ClubDashboard(ctx, admin.Actor(), club.ID)
	require.NoError(t, err)
	require.Len(t, dashboard, 1)
	for _, m := range dashboard[0].Members {
		if m.UserID == member.ID {
			assert.Equal(t, specialtydomain.DashboardCompleted, m.Status)
			assert.Equal(t, 100, m.Percent)
		}
	}
}

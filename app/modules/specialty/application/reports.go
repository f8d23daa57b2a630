package specialtyservice

import (
	"context"
	"errors"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/operation"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MySpecialties lists every specialty the caller has touched.
func (s *SpecialtyService) MySpecialties(ctx context.Context, actor clubdomain.Actor) ([]SpecialtyProgress, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "MySpecialties", actor.UserID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]SpecialtyProgress, error], error) {
		rows, err := s.repo.UserProgress(ctx, db, actor.UserID)
		if err != nil {
			return results.OperationResult[[]SpecialtyProgress, error]{}, err
		}
		out := make([]SpecialtyProgress, 0, len(rows))
		for _, row := range rows {
			status := specialtydomain.SpecialtyInProgress
			if row.Status != nil {
				status = *row.Status
			}
			out = append(out, SpecialtyProgress{
				SpecialtyID: row.SpecialtyID,
				Code:        row.Code,
				Name:        row.SpecialtyName,
				Area:        row.Area,
				Approved:    row.Approved,
				Total:       row.Total,
				Percent:     specialtydomain.ProgressPercent(row.Approved, row.Total),
				Status:      status,
				AwardedAt:   row.AwardedAt,
			})
		}
		return results.SuccessResult[[]SpecialtyProgress, error](out), nil
	}))
}

// ClassProgress reports a member's standing in a class curriculum. Members
// see their own; staff see anyone in their club.
func (s *SpecialtyService) ClassProgress(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, dbvClass string) (*ClassProgress, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "ClassProgress", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*ClassProgress, error], error) {
		class := normalizeClass(dbvClass)
		if class == "" {
			return results.FailureResult[*ClassProgress, error](apperr.Invalid("class is required")), nil
		}
		user, err := s.clubRepo.GetUser(ctx, db, userID)
		if err != nil {
			if errors.Is(err, clubdb.ErrUserNotFound) {
				return results.FailureResult[*ClassProgress, error](apperr.NotFound("user %s not found", userID)), nil
			}
			return results.OperationResult[*ClassProgress, error]{}, err
		}
		if actor.UserID != userID && (user.ClubID == nil || !actor.IsStaffOf(*user.ClubID)) {
			return results.FailureResult[*ClassProgress, error](apperr.Forbidden("staff role in the member's club required")), nil
		}

		reqs, err := s.repo.ListClassRequirements(ctx, db, class)
		if err != nil {
			return results.OperationResult[*ClassProgress, error]{}, err
		}
		ids := make([]uuid.UUID, 0, len(reqs))
		for _, r := range reqs {
			ids = append(ids, r.ID)
		}
		answers, err := s.repo.ListUserRequirements(ctx, db, userID, ids)
		if err != nil {
			return results.OperationResult[*ClassProgress, error]{}, err
		}
		byReq := make(map[uuid.UUID]specialtydb.UserRequirement, len(answers))
		for _, a := range answers {
			byReq[a.RequirementID] = a
		}

		out := &ClassProgress{
			UserID:       userID,
			DbvClass:     class,
			Total:        len(reqs),
			Milestone:    user.LastClassMilestone,
			Requirements: make([]RequirementProgress, 0, len(reqs)),
		}
		for _, r := range reqs {
			rp := RequirementProgress{Requirement: r}
			if a, ok := byReq[r.ID]; ok {
				status := a.Status
				rp.Status = &status
				rp.AnswerText, rp.AnswerFileURL, rp.CompletedAt = a.AnswerText, a.AnswerFileURL, a.CompletedAt
				if status == specialtydomain.RequirementApproved {
					out.Approved++
				}
			}
			out.Requirements = append(out.Requirements, rp)
		}
		out.Percent = specialtydomain.ProgressPercent(out.Approved, out.Total)
		return results.SuccessResult[*ClassProgress, error](out), nil
	}))
}

// ClubDashboard groups the club's member progress by specialty.
func (s *SpecialtyService) ClubDashboard(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]DashboardSpecialty, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "ClubDashboard", clubID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]DashboardSpecialty, error], error) {
		if !actor.IsStaffOf(clubID) {
			return results.FailureResult[[]DashboardSpecialty, error](apperr.Forbidden("staff role in this club required")), nil
		}
		rows, err := s.repo.ClubProgress(ctx, db, clubID)
		if err != nil {
			return results.OperationResult[[]DashboardSpecialty, error]{}, err
		}
		return results.SuccessResult[[]DashboardSpecialty, error](buildDashboard(rows)), nil
	}))
}

// buildDashboard keeps the row order, which is by specialty then member name.
func buildDashboard(rows []specialtydb.ProgressRow) []DashboardSpecialty {
	out := []DashboardSpecialty{}
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		i, ok := index[row.SpecialtyID]
		if !ok {
			i = len(out)
			index[row.SpecialtyID] = i
			out = append(out, DashboardSpecialty{
				SpecialtyID: row.SpecialtyID,
				Code:        row.Code,
				Name:        row.SpecialtyName,
				Area:        row.Area,
			})
		}
		out[i].Members = append(out[i].Members, MemberProgress{
			UserID:   row.UserID,
			Name:     row.UserName,
			Approved: row.Approved,
			Total:    row.Total,
			Percent:  specialtydomain.ProgressPercent(row.Approved, row.Total),
			Status:   specialtydomain.InferDashboardStatus(row.Status, row.Approved),
		})
	}
	return out
}

// PendingWork lists what the club's staff still have to review.
func (s *SpecialtyService) PendingWork(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) (*PendingWork, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "PendingWork", clubID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*PendingWork, error], error) {
		if !actor.IsStaffOf(clubID) {
			return results.FailureResult[*PendingWork, error](apperr.Forbidden("staff role in this club required")), nil
		}
		reqs, err := s.repo.PendingRequirements(ctx, db, clubID)
		if err != nil {
			return results.OperationResult[*PendingWork, error]{}, err
		}
		specs, err := s.repo.WaitingSpecialties(ctx, db, clubID)
		if err != nil {
			return results.OperationResult[*PendingWork, error]{}, err
		}
		if reqs == nil {
			reqs = []specialtydb.PendingRequirementRow{}
		}
		if specs == nil {
			specs = []specialtydb.WaitingSpecialtyRow{}
		}
		return results.SuccessResult[*PendingWork, error](&PendingWork{Requirements: reqs, Specialties: specs}), nil
	}))
}

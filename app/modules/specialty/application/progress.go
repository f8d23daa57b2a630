package specialtyservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/operation"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type userRequirementResult = results.OperationResult[*specialtydb.UserRequirement, error]
type userSpecialtyResult = results.OperationResult[*specialtydb.UserSpecialty, error]

// staffMember loads the target member, locking the row when lock is set, and
// checks that the actor is staff in the member's club.
func (s *SpecialtyService) staffMember(ctx context.Context, db bun.IDB, actor clubdomain.Actor, userID uuid.UUID, lock bool) (*clubdb.User, error) {
	var (
		user *clubdb.User
		err  error
	)
	if lock {
		user, err = s.clubRepo.LockUser(ctx, db, userID)
	} else {
		user, err = s.clubRepo.GetUser(ctx, db, userID)
	}
	if err != nil {
		if errors.Is(err, clubdb.ErrUserNotFound) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, err
	}
	if user.ClubID == nil || !actor.IsStaffOf(*user.ClubID) {
		return nil, apperr.Forbidden("staff role in the member's club required")
	}
	return user, nil
}

func (s *SpecialtyService) specialty(ctx context.Context, db bun.IDB, id uuid.UUID) (*specialtydb.Specialty, error) {
	spec, err := s.repo.GetSpecialty(ctx, db, id)
	if err != nil {
		if errors.Is(err, specialtydb.ErrNotFound) {
			return nil, apperr.NotFound("specialty %s not found", id)
		}
		return nil, err
	}
	return spec, nil
}

func (s *SpecialtyService) requirement(ctx context.Context, db bun.IDB, id uuid.UUID) (*specialtydb.Requirement, error) {
	req, err := s.repo.GetRequirement(ctx, db, id)
	if err != nil {
		if errors.Is(err, specialtydb.ErrRequirementNotFound) {
			return nil, apperr.NotFound("requirement %s not found", id)
		}
		return nil, err
	}
	return req, nil
}

// userSpecialty returns nil without error when the member never started it.
func (s *SpecialtyService) userSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error) {
	us, err := s.repo.GetUserSpecialty(ctx, db, userID, specialtyID)
	if errors.Is(err, specialtydb.ErrUserSpecialtyNotFound) {
		return nil, nil
	}
	return us, err
}

// SubmitAnswer stores a member's answer and resets the requirement to PENDING.
func (s *SpecialtyService) SubmitAnswer(ctx context.Context, actor clubdomain.Actor, requirementID uuid.UUID, answer Answer) (*specialtydb.UserRequirement, error) {
	fx := &effects{}
	ur, err := operation.Unwrap(operation.Run(s.op, ctx, "SubmitAnswer", requirementID.String(), func(ctx context.Context, db bun.IDB) (userRequirementResult, error) {
		text, file := trimmed(answer.Text), trimmed(answer.FileURL)
		if text == nil && file == nil {
			return results.FailureResult[*specialtydb.UserRequirement, error](apperr.Invalid("an answer text or file URL is required")), nil
		}
		req, err := s.requirement(ctx, db, requirementID)
		if err != nil {
			return operation.Classify[*specialtydb.UserRequirement](err)
		}

		now := s.now()
		ur := &specialtydb.UserRequirement{
			UserID:        actor.UserID,
			RequirementID: req.ID,
			AnswerText:    text,
			AnswerFileURL: file,
			CompletedAt:   &now,
		}
		if err := s.repo.SaveSubmission(ctx, db, ur); err != nil {
			if errors.Is(err, specialtydb.ErrUnknownReference) {
				return results.FailureResult[*specialtydb.UserRequirement, error](apperr.NotFound("user %s not found", actor.UserID)), nil
			}
			return userRequirementResult{}, err
		}

		if req.SpecialtyID != nil {
			us, created, err := s.repo.StartUserSpecialty(ctx, db, actor.UserID, *req.SpecialtyID)
			if err != nil {
				return userRequirementResult{}, err
			}
			if created {
				fx.statusChanges = append(fx.statusChanges, s.statusChange(actor, us, ""))
			}
		}
		return results.SuccessResult[*specialtydb.UserRequirement, error](ur), nil
	}))
	if err != nil {
		return nil, err
	}
	s.flush(ctx, fx)
	return ur, nil
}

// SetRequirementStatus records a verdict. An approval then runs the class
// milestone check and the specialty completion check, each in its own
// savepoint: a failing check is logged and rolled back on its own while the
// verdict still commits.
func (s *SpecialtyService) SetRequirementStatus(ctx context.Context, actor clubdomain.Actor, userID, requirementID uuid.UUID, verdict specialtydomain.RequirementStatus) (*specialtydb.UserRequirement, error) {
	fx := &effects{}
	ur, err := operation.Unwrap(operation.Run(s.op, ctx, "SetRequirementStatus", userID.String(), func(ctx context.Context, db bun.IDB) (userRequirementResult, error) {
		if !verdict.IsValid() {
			return results.FailureResult[*specialtydb.UserRequirement, error](apperr.Invalid("unknown verdict %q", verdict)), nil
		}
		user, err := s.staffMember(ctx, db, actor, userID, true)
		if err != nil {
			return operation.Classify[*specialtydb.UserRequirement](err)
		}
		req, err := s.requirement(ctx, db, requirementID)
		if err != nil {
			return operation.Classify[*specialtydb.UserRequirement](err)
		}

		ur := &specialtydb.UserRequirement{
			UserID:        userID,
			RequirementID: requirementID,
			Status:        verdict,
			ReviewedBy:    &actor.UserID,
		}
		if verdict == specialtydomain.RequirementApproved {
			now := s.now()
			ur.CompletedAt = &now
		}
		if err := s.repo.SetVerdict(ctx, db, ur); err != nil {
			return userRequirementResult{}, err
		}

		switch verdict {
		case specialtydomain.RequirementApproved:
			fx.notify(userID, "Requirement approved", req.Description, notificationdomain.SeveritySuccess)
		case specialtydomain.RequirementRejected:
			fx.notify(userID, "Requirement rejected", req.Description, notificationdomain.SeverityWarning)
		}
		if verdict != specialtydomain.RequirementApproved {
			return results.SuccessResult[*specialtydb.UserRequirement, error](ur), nil
		}

		if req.DbvClass != nil {
			s.sideEffect(ctx, db, fx, "class milestone check", userID, func(ctx context.Context, db bun.IDB, local *effects) error {
				return s.awardClassMilestones(ctx, db, user, *req.DbvClass, local)
			})
		}
		if req.SpecialtyID != nil {
			s.sideEffect(ctx, db, fx, "specialty completion check", userID, func(ctx context.Context, db bun.IDB, local *effects) error {
				return s.stageCompletedSpecialty(ctx, db, actor, user, *req.SpecialtyID, local)
			})
		}
		return results.SuccessResult[*specialtydb.UserRequirement, error](ur), nil
	}))
	if err != nil {
		return nil, err
	}
	s.flush(ctx, fx)
	return ur, nil
}

// sideEffect runs fn in a savepoint and keeps its effects only on success.
func (s *SpecialtyService) sideEffect(ctx context.Context, db bun.IDB, fx *effects, name string, userID uuid.UUID, fn func(ctx context.Context, db bun.IDB, local *effects) error) {
	local := &effects{}
	err := s.savepoint(ctx, db, func(ctx context.Context, db bun.IDB) error {
		return fn(ctx, db, local)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Verdict side effect failed",
			slog.String("side_effect", name),
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
		return
	}
	fx.merge(local)
}

// awardClassMilestones pays every class threshold the member has newly
// crossed. The member row is locked by the caller, and the watermark only
// moves through a compare-and-swap, so a threshold is never paid twice.
func (s *SpecialtyService) awardClassMilestones(ctx context.Context, db bun.IDB, user *clubdb.User, dbvClass string, fx *effects) error {
	approved, total, err := s.repo.CountClassProgress(ctx, db, user.ID, dbvClass)
	if err != nil {
		return err
	}
	eligible := specialtydomain.EligibleMilestones(approved, total, user.LastClassMilestone)
	if len(eligible) == 0 {
		return nil
	}

	from := user.LastClassMilestone
	to := specialtydomain.Watermark(from, eligible)
	advanced, err := s.clubRepo.AdvanceClassMilestone(ctx, db, user.ID, from, to)
	if err != nil {
		return err
	}
	if !advanced {
		s.logger.WarnContext(ctx, "Class milestone watermark moved concurrently, skipping award",
			slog.String("user_id", user.ID.String()),
			slog.Int("from", from),
			slog.Int("to", to),
		)
		return nil
	}

	for _, m := range eligible {
		reason := fmt.Sprintf("Class %s: %d%% milestone", dbvClass, m.Threshold)
		entry, err := s.ledger.Award(ctx, db, user.ID, m.Bonus, reason, pointsdomain.SourceClassMilestone)
		if err != nil {
			return err
		}
		fx.entries = append(fx.entries, entry)
		fx.notify(user.ID, "Class milestone reached",
			fmt.Sprintf("You completed %d%% of %s and earned %d points.", m.Threshold, dbvClass, m.Bonus),
			notificationdomain.SeveritySuccess)
	}
	user.LastClassMilestone = to
	return nil
}

// stageCompletedSpecialty moves the member's specialty to WAITING_APPROVAL
// once every requirement is approved and tells the club staff.
func (s *SpecialtyService) stageCompletedSpecialty(ctx context.Context, db bun.IDB, actor clubdomain.Actor, user *clubdb.User, specialtyID uuid.UUID, fx *effects) error {
	approved, total, err := s.repo.CountSpecialtyProgress(ctx, db, user.ID, specialtyID)
	if err != nil {
		return err
	}
	if total == 0 || approved < total {
		return nil
	}

	prev, err := s.userSpecialty(ctx, db, user.ID, specialtyID)
	if err != nil {
		return err
	}
	var from specialtydomain.SpecialtyStatus
	us := &specialtydb.UserSpecialty{UserID: user.ID, SpecialtyID: specialtyID}
	if prev != nil {
		if prev.Status.Staged() {
			return nil
		}
		from = prev.Status
		us.ID, us.StartedAt = prev.ID, prev.StartedAt
	}
	us.Status = specialtydomain.SpecialtyWaitingApproval
	if err := s.repo.UpsertUserSpecialty(ctx, db, us); err != nil {
		return err
	}

	spec, err := s.repo.GetSpecialty(ctx, db, specialtyID)
	if err != nil {
		return err
	}
	staff, err := s.clubRepo.ListClubStaff(ctx, db, *user.ClubID)
	if err != nil {
		return err
	}
	for _, member := range staff {
		fx.notify(member.ID, "Specialty awaiting approval",
			fmt.Sprintf("%s completed every requirement of %s.", user.Name, spec.Name),
			notificationdomain.SeverityInfo)
	}
	fx.statusChanges = append(fx.statusChanges, s.statusChange(actor, us, from))
	return nil
}

// AwardSpecialty completes a member's specialty and credits the award bonus.
// Awarding an already completed specialty returns it unchanged.
func (s *SpecialtyService) AwardSpecialty(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error) {
	fx := &effects{}
	us, err := operation.Unwrap(operation.Run(s.op, ctx, "AwardSpecialty", userID.String(), func(ctx context.Context, db bun.IDB) (userSpecialtyResult, error) {
		if _, err := s.staffMember(ctx, db, actor, userID, true); err != nil {
			return operation.Classify[*specialtydb.UserSpecialty](err)
		}
		spec, err := s.specialty(ctx, db, specialtyID)
		if err != nil {
			return operation.Classify[*specialtydb.UserSpecialty](err)
		}
		prev, err := s.userSpecialty(ctx, db, userID, specialtyID)
		if err != nil {
			return userSpecialtyResult{}, err
		}
		if prev != nil && prev.Status == specialtydomain.SpecialtyCompleted {
			return results.SuccessResult[*specialtydb.UserSpecialty, error](prev), nil
		}

		now := s.now()
		var from specialtydomain.SpecialtyStatus
		us := &specialtydb.UserSpecialty{
			UserID:      userID,
			SpecialtyID: specialtyID,
			Status:      specialtydomain.SpecialtyCompleted,
			AwardedAt:   &now,
		}
		if prev != nil {
			from = prev.Status
			us.ID, us.StartedAt = prev.ID, prev.StartedAt
		}
		if err := s.repo.UpsertUserSpecialty(ctx, db, us); err != nil {
			return userSpecialtyResult{}, err
		}
		entry, err := s.ledger.Award(ctx, db, userID, specialtydomain.SpecialtyAwardBonus,
			"Specialty awarded: "+spec.Name, pointsdomain.SourceSpecialtyAward)
		if err != nil {
			return userSpecialtyResult{}, err
		}

		fx.entries = append(fx.entries, entry)
		fx.notify(userID, "Specialty awarded",
			fmt.Sprintf("You earned %s and %d points.", spec.Name, specialtydomain.SpecialtyAwardBonus),
			notificationdomain.SeveritySuccess)
		fx.statusChanges = append(fx.statusChanges, s.statusChange(actor, us, from))
		return results.SuccessResult[*specialtydb.UserSpecialty, error](us), nil
	}))
	if err != nil {
		return nil, err
	}
	s.flush(ctx, fx)
	return us, nil
}

// AssignSpecialty starts a specialty for a member. An existing row is
// returned as is, so a staged or completed specialty is never downgraded.
func (s *SpecialtyService) AssignSpecialty(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error) {
	fx := &effects{}
	us, err := operation.Unwrap(operation.Run(s.op, ctx, "AssignSpecialty", userID.String(), func(ctx context.Context, db bun.IDB) (userSpecialtyResult, error) {
		if _, err := s.staffMember(ctx, db, actor, userID, false); err != nil {
			return operation.Classify[*specialtydb.UserSpecialty](err)
		}
		spec, err := s.specialty(ctx, db, specialtyID)
		if err != nil {
			return operation.Classify[*specialtydb.UserSpecialty](err)
		}
		us, created, err := s.repo.StartUserSpecialty(ctx, db, userID, specialtyID)
		if err != nil {
			return userSpecialtyResult{}, err
		}
		if created {
			fx.notify(userID, "New specialty", "You started "+spec.Name+".", notificationdomain.SeverityInfo)
			fx.statusChanges = append(fx.statusChanges, s.statusChange(actor, us, ""))
		}
		return results.SuccessResult[*specialtydb.UserSpecialty, error](us), nil
	}))
	if err != nil {
		return nil, err
	}
	s.flush(ctx, fx)
	return us, nil
}

func (s *SpecialtyService) statusChange(actor clubdomain.Actor, us *specialtydb.UserSpecialty, from specialtydomain.SpecialtyStatus) specialtydomain.SpecialtyStatusChangedPayloadV1 {
	p := specialtydomain.SpecialtyStatusChangedPayloadV1{
		UserID:      us.UserID,
		SpecialtyID: us.SpecialtyID,
		From:        from,
		To:          us.Status,
		ActorID:     actor.UserID,
		OccurredAt:  s.now(),
	}
	if actor.HasClub() {
		clubID := actor.ClubID
		p.ClubID = &clubID
	}
	return p
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

package clubservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/operation"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ClubService implements the Service interface.
type ClubService struct {
	repo clubdb.Repository
	op   *operation.Runner
}

var _ Service = (*ClubService)(nil)

// NewClubService creates a new ClubService.
func NewClubService(
	repo clubdb.Repository,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ClubService {
	return &ClubService{
		repo: repo,
		op:   operation.NewRunner("ClubService", logger, m, tracer, db),
	}
}

type clubResult = results.OperationResult[*clubdb.Club, error]
type userResult = results.OperationResult[*clubdb.User, error]

// CreateClub creates a club and makes the caller its owner.
func (s *ClubService) CreateClub(ctx context.Context, actor clubdomain.Actor, name, region string) (*clubdb.Club, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "CreateClub", actor.UserID.String(), func(ctx context.Context, db bun.IDB) (clubResult, error) {
		if actor.HasClub() {
			return results.FailureResult[*clubdb.Club, error](apperr.Conflict("user already belongs to a club")), nil
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return results.FailureResult[*clubdb.Club, error](apperr.Invalid("club name is required")), nil
		}

		club := &clubdb.Club{Name: name, Region: strings.TrimSpace(region)}
		if err := s.repo.CreateClub(ctx, db, club); err != nil {
			return clubResult{}, err
		}
		if err := s.repo.UpdateMembership(ctx, db, actor.UserID, &club.ID, clubdomain.RoleOwner); err != nil {
			if errors.Is(err, clubdb.ErrUserNotFound) {
				return results.FailureResult[*clubdb.Club, error](apperr.NotFound("user %s not found", actor.UserID)), nil
			}
			return clubResult{}, err
		}
		return results.SuccessResult[*clubdb.Club, error](club), nil
	}))
}

// GetClub retrieves a club.
func (s *ClubService) GetClub(ctx context.Context, clubID uuid.UUID) (*clubdb.Club, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "GetClub", clubID.String(), func(ctx context.Context, db bun.IDB) (clubResult, error) {
		club, err := s.repo.GetClub(ctx, db, clubID)
		if err != nil {
			if errors.Is(err, clubdb.ErrNotFound) {
				return results.FailureResult[*clubdb.Club, error](apperr.NotFound("club %s not found", clubID)), nil
			}
			return clubResult{}, err
		}
		return results.SuccessResult[*clubdb.Club, error](club), nil
	}))
}

// ListMembers lists a club's roster for any of its members.
func (s *ClubService) ListMembers(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]clubdb.User, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "ListMembers", clubID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]clubdb.User, error], error) {
		if !actor.InClub(clubID) {
			return results.FailureResult[[]clubdb.User, error](apperr.Forbidden("not a member of this club")), nil
		}
		users, err := s.repo.ListClubMembers(ctx, db, clubID)
		if err != nil {
			return results.OperationResult[[]clubdb.User, error]{}, err
		}
		return results.SuccessResult[[]clubdb.User, error](users), nil
	}))
}

// AddMember registers a new member in the actor's club.
func (s *ClubService) AddMember(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID, member NewMember) (*clubdb.User, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "AddMember", clubID.String(), func(ctx context.Context, db bun.IDB) (userResult, error) {
		if !actor.CanManage(clubID) {
			return results.FailureResult[*clubdb.User, error](apperr.Forbidden("admin role required")), nil
		}
		if !member.Role.IsValid() {
			return results.FailureResult[*clubdb.User, error](apperr.Invalid("unknown role %q", member.Role)), nil
		}
		if member.Role == clubdomain.RoleOwner && actor.Role != clubdomain.RoleOwner {
			return results.FailureResult[*clubdb.User, error](apperr.Forbidden("only an owner may add an owner")), nil
		}

		user := &clubdb.User{
			ClubID:   &clubID,
			Name:     strings.TrimSpace(member.Name),
			Email:    strings.ToLower(strings.TrimSpace(member.Email)),
			Role:     member.Role,
			DbvClass: member.DbvClass,
		}
		if err := s.repo.CreateUser(ctx, db, user); err != nil {
			if errors.Is(err, clubdb.ErrDuplicateEmail) {
				return results.FailureResult[*clubdb.User, error](apperr.Conflict("email %s already registered", user.Email)), nil
			}
			return userResult{}, err
		}
		return results.SuccessResult[*clubdb.User, error](user), nil
	}))
}

// UpdateMemberRole changes a member's role. Only owners may grant or revoke OWNER.
func (s *ClubService) UpdateMemberRole(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, role clubdomain.Role) (*clubdb.User, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "UpdateMemberRole", userID.String(), func(ctx context.Context, db bun.IDB) (userResult, error) {
		if !role.IsValid() {
			return results.FailureResult[*clubdb.User, error](apperr.Invalid("unknown role %q", role)), nil
		}

		user, err := s.repo.LockUser(ctx, db, userID)
		if err != nil {
			if errors.Is(err, clubdb.ErrUserNotFound) {
				return results.FailureResult[*clubdb.User, error](apperr.NotFound("user %s not found", userID)), nil
			}
			return userResult{}, err
		}
		if user.ClubID == nil || !actor.CanManage(*user.ClubID) {
			return results.FailureResult[*clubdb.User, error](apperr.Forbidden("admin role in the member's club required")), nil
		}
		if (role == clubdomain.RoleOwner || user.Role == clubdomain.RoleOwner) && actor.Role != clubdomain.RoleOwner {
			return results.FailureResult[*clubdb.User, error](apperr.Forbidden("only an owner may grant or revoke ownership")), nil
		}

		if err := s.repo.UpdateMembership(ctx, db, userID, user.ClubID, role); err != nil {
			return userResult{}, fmt.Errorf("failed to update role: %w", err)
		}
		user.Role = role
		return results.SuccessResult[*clubdb.User, error](user), nil
	}))
}

// GetUser retrieves a member.
func (s *ClubService) GetUser(ctx context.Context, userID uuid.UUID) (*clubdb.User, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "GetUser", userID.String(), func(ctx context.Context, db bun.IDB) (userResult, error) {
		user, err := s.repo.GetUser(ctx, db, userID)
		if err != nil {
			if errors.Is(err, clubdb.ErrUserNotFound) {
				return results.FailureResult[*clubdb.User, error](apperr.NotFound("user %s not found", userID)), nil
			}
			return userResult{}, err
		}
		return results.SuccessResult[*clubdb.User, error](user), nil
	}))
}

// ResolveActor loads the caller's current club and role. Tokens only carry
// the user id that is trusted; role changes apply on the next request.
func (s *ClubService) ResolveActor(ctx context.Context, userID uuid.UUID) (clubdomain.Actor, error) {
	user, err := s.repo.GetUser(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, clubdb.ErrUserNotFound) {
			return clubdomain.Actor{}, apperr.NotFound("user %s not found", userID)
		}
		return clubdomain.Actor{}, err
	}
	return user.Actor(), nil
}

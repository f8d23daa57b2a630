package specialtyservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	notificationservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/application"
	pointsservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/application"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/operation"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// SpecialtyService implements the Service interface.
type SpecialtyService struct {
	repo      specialtydb.Repository
	clubRepo  clubdb.Repository
	ledger    pointsservice.Ledger
	notifier  notificationservice.Notifier
	publisher eventbus.Publisher
	logger    *slog.Logger
	op        *operation.Runner
	now       func() time.Time
	savepoint func(ctx context.Context, db bun.IDB, fn func(ctx context.Context, db bun.IDB) error) error
}

var _ Service = (*SpecialtyService)(nil)

// NewSpecialtyService creates a new SpecialtyService.
func NewSpecialtyService(
	repo specialtydb.Repository,
	clubRepo clubdb.Repository,
	ledger pointsservice.Ledger,
	notifier notificationservice.Notifier,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *SpecialtyService {
	op := operation.NewRunner("SpecialtyService", logger, m, tracer, db)
	return &SpecialtyService{
		repo:      repo,
		clubRepo:  clubRepo,
		ledger:    ledger,
		notifier:  notifier,
		publisher: publisher,
		logger:    op.Logger,
		op:        op,
		now:       func() time.Time { return time.Now().UTC() },
		savepoint: operation.Savepoint,
	}
}

type specialtyResult = results.OperationResult[*specialtydb.Specialty, error]

// ListSpecialties returns the catalog.
func (s *SpecialtyService) ListSpecialties(ctx context.Context) ([]specialtydb.Specialty, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "ListSpecialties", "all", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]specialtydb.Specialty, error], error) {
		list, err := s.repo.ListSpecialties(ctx, db)
		if err != nil {
			return results.OperationResult[[]specialtydb.Specialty, error]{}, err
		}
		return results.SuccessResult[[]specialtydb.Specialty, error](list), nil
	}))
}

// GetSpecialty returns a specialty with its ordered requirements.
func (s *SpecialtyService) GetSpecialty(ctx context.Context, id uuid.UUID) (*specialtydb.Specialty, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "GetSpecialty", id.String(), func(ctx context.Context, db bun.IDB) (specialtyResult, error) {
		spec, err := s.repo.GetSpecialty(ctx, db, id)
		if err != nil {
			if errors.Is(err, specialtydb.ErrNotFound) {
				return results.FailureResult[*specialtydb.Specialty, error](apperr.NotFound("specialty %s not found", id)), nil
			}
			return specialtyResult{}, err
		}
		return results.SuccessResult[*specialtydb.Specialty, error](spec), nil
	}))
}

// CreateSpecialty adds a specialty and its requirements to the catalog.
func (s *SpecialtyService) CreateSpecialty(ctx context.Context, actor clubdomain.Actor, in NewSpecialty) (*specialtydb.Specialty, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "CreateSpecialty", in.Code, func(ctx context.Context, db bun.IDB) (specialtyResult, error) {
		if !actor.HasClub() || !actor.Role.IsStaff() {
			return results.FailureResult[*specialtydb.Specialty, error](apperr.Forbidden("staff role required")), nil
		}
		code := strings.ToUpper(strings.TrimSpace(in.Code))
		name := strings.TrimSpace(in.Name)
		if code == "" || name == "" {
			return results.FailureResult[*specialtydb.Specialty, error](apperr.Invalid("specialty code and name are required")), nil
		}
		if len(in.Requirements) == 0 {
			return results.FailureResult[*specialtydb.Specialty, error](apperr.Invalid("a specialty needs at least one requirement")), nil
		}
		reqs, err := buildRequirements(in.Requirements, 1)
		if err != nil {
			return results.FailureResult[*specialtydb.Specialty, error](err), nil
		}

		spec := &specialtydb.Specialty{
			Code:     code,
			Name:     name,
			Area:     strings.TrimSpace(in.Area),
			ImageURL: in.ImageURL,
		}
		if err := s.repo.CreateSpecialty(ctx, db, spec); err != nil {
			if errors.Is(err, specialtydb.ErrDuplicateCode) {
				return results.FailureResult[*specialtydb.Specialty, error](apperr.Conflict("specialty code %s already exists", code)), nil
			}
			return specialtyResult{}, err
		}
		for i := range reqs {
			reqs[i].SpecialtyID = &spec.ID
		}
		if err := s.repo.CreateRequirements(ctx, db, reqs); err != nil {
			return specialtyResult{}, err
		}
		spec.Requirements = reqs
		spec.RequirementCount = len(reqs)
		return results.SuccessResult[*specialtydb.Specialty, error](spec), nil
	}))
}

// DeleteSpecialty removes a specialty with everything that references it.
func (s *SpecialtyService) DeleteSpecialty(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error {
	_, err := operation.Unwrap(operation.Run(s.op, ctx, "DeleteSpecialty", id.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[struct{}, error], error) {
		if !actor.HasClub() || !actor.Role.IsStaff() {
			return results.FailureResult[struct{}, error](apperr.Forbidden("staff role required")), nil
		}
		if err := s.repo.DeleteSpecialty(ctx, db, id); err != nil {
			if errors.Is(err, specialtydb.ErrNotFound) {
				return results.FailureResult[struct{}, error](apperr.NotFound("specialty %s not found", id)), nil
			}
			return results.OperationResult[struct{}, error]{}, err
		}
		return results.SuccessResult[struct{}, error](struct{}{}), nil
	}))
	return err
}

// ListClassRequirements returns a class curriculum.
func (s *SpecialtyService) ListClassRequirements(ctx context.Context, dbvClass string) ([]specialtydb.Requirement, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "ListClassRequirements", dbvClass, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]specialtydb.Requirement, error], error) {
		class := normalizeClass(dbvClass)
		if class == "" {
			return results.FailureResult[[]specialtydb.Requirement, error](apperr.Invalid("class is required")), nil
		}
		reqs, err := s.repo.ListClassRequirements(ctx, db, class)
		if err != nil {
			return results.OperationResult[[]specialtydb.Requirement, error]{}, err
		}
		return results.SuccessResult[[]specialtydb.Requirement, error](reqs), nil
	}))
}

// AddClassRequirement appends a requirement to a class curriculum.
func (s *SpecialtyService) AddClassRequirement(ctx context.Context, actor clubdomain.Actor, dbvClass string, in NewRequirement) (*specialtydb.Requirement, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "AddClassRequirement", dbvClass, func(ctx context.Context, db bun.IDB) (results.OperationResult[*specialtydb.Requirement, error], error) {
		if !actor.HasClub() || !actor.Role.IsStaff() {
			return results.FailureResult[*specialtydb.Requirement, error](apperr.Forbidden("staff role required")), nil
		}
		class := normalizeClass(dbvClass)
		if class == "" {
			return results.FailureResult[*specialtydb.Requirement, error](apperr.Invalid("class is required")), nil
		}
		next, err := s.repo.NextClassPosition(ctx, db, class)
		if err != nil {
			return results.OperationResult[*specialtydb.Requirement, error]{}, err
		}
		reqs, err := buildRequirements([]NewRequirement{in}, next)
		if err != nil {
			return results.FailureResult[*specialtydb.Requirement, error](err), nil
		}
		reqs[0].DbvClass = &class
		if err := s.repo.CreateRequirements(ctx, db, reqs); err != nil {
			return results.OperationResult[*specialtydb.Requirement, error]{}, err
		}
		return results.SuccessResult[*specialtydb.Requirement, error](&reqs[0]), nil
	}))
}

func buildRequirements(in []NewRequirement, firstPosition int) ([]specialtydb.Requirement, error) {
	out := make([]specialtydb.Requirement, 0, len(in))
	for i, r := range in {
		desc := strings.TrimSpace(r.Description)
		if desc == "" {
			return nil, apperr.Invalid("requirement %d has no description", i+1)
		}
		typ, ok := specialtydomain.ParseRequirementType(string(r.Type))
		if !ok {
			return nil, apperr.Invalid("requirement %d has unknown type %q", i+1, r.Type)
		}
		out = append(out, specialtydb.Requirement{
			Position:    firstPosition + i,
			Description: desc,
			Type:        typ,
		})
	}
	return out, nil
}

// normalizeClass collapses whitespace in a class name.
func normalizeClass(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

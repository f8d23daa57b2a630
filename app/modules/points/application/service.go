package pointsservice

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/eventbus"
	"github.com/Black-And-White-Club/pathfinder-club/internal/metrics"
	"github.com/Black-And-White-Club/pathfinder-club/internal/operation"
	"github.com/Black-And-White-Club/pathfinder-club/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	defaultRankingLimit = 20
)

// PointsService implements the Service interface.
type PointsService struct {
	repo      pointsdb.Repository
	clubRepo  clubdb.Repository
	publisher eventbus.Publisher
	palette   ChartPalette
	logger    *slog.Logger
	op        *operation.Runner
}

var _ Service = (*PointsService)(nil)

// NewPointsService creates a new PointsService.
func NewPointsService(
	repo pointsdb.Repository,
	clubRepo clubdb.Repository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *PointsService {
	op := operation.NewRunner("PointsService", logger, m, tracer, db)
	return &PointsService{
		repo:      repo,
		clubRepo:  clubRepo,
		publisher: publisher,
		palette:   DefaultPalette,
		logger:    op.Logger,
		op:        op,
	}
}

// Award records a ledger entry and bumps the member's counter on db.
func (s *PointsService) Award(ctx context.Context, db bun.IDB, userID uuid.UUID, amount int, reason string, source pointsdomain.Source) (*pointsdb.PointsHistory, error) {
	if amount == 0 {
		return nil, apperr.Invalid("amount must not be zero")
	}
	if !source.IsValid() {
		return nil, apperr.Invalid("unknown points source %q", source)
	}

	entry := &pointsdb.PointsHistory{
		UserID: userID,
		Amount: amount,
		Reason: reason,
		Source: source,
	}
	if err := s.repo.Record(ctx, db, entry); err != nil {
		if errors.Is(err, pointsdb.ErrUserNotFound) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, err
	}
	return entry, nil
}

// Announce publishes points.awarded.v1 for each committed entry.
func (s *PointsService) Announce(ctx context.Context, entries ...*pointsdb.PointsHistory) {
	if s.publisher == nil {
		return
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		payload := pointsdomain.PointsAwardedPayloadV1{
			EntryID:    e.ID,
			UserID:     e.UserID,
			Amount:     e.Amount,
			Reason:     e.Reason,
			Source:     e.Source,
			OccurredAt: e.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, pointsdomain.TopicPointsAwardedV1, payload, map[string]string{
			"user_id": e.UserID.String(),
		}); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish points awarded event",
				slog.String("entry_id", e.ID.String()),
				slog.Any("error", err),
			)
		}
	}
}

// GetBalance returns the ledger total with the counter for drift reporting.
func (s *PointsService) GetBalance(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) (pointsdomain.Balance, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "GetBalance", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[pointsdomain.Balance, error], error) {
		user, err := s.visibleUser(ctx, db, actor, userID)
		if err != nil {
			return operation.Classify[pointsdomain.Balance](err)
		}
		sum, err := s.repo.LedgerSum(ctx, db, userID)
		if err != nil {
			return results.OperationResult[pointsdomain.Balance, error]{}, err
		}
		balance := pointsdomain.NewBalance(userID, sum, user.Points)
		if balance.Drift != 0 {
			s.logger.WarnContext(ctx, "Points counter drifted from ledger",
				slog.String("user_id", userID.String()),
				slog.Int("drift", balance.Drift),
			)
		}
		return results.SuccessResult[pointsdomain.Balance, error](balance), nil
	}))
}

// History returns a member's ledger entries, newest first.
func (s *PointsService) History(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, limit int) ([]pointsdb.PointsHistory, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return operation.Unwrap(operation.Run(s.op, ctx, "History", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]pointsdb.PointsHistory, error], error) {
		if _, err := s.visibleUser(ctx, db, actor, userID); err != nil {
			return operation.Classify[[]pointsdb.PointsHistory](err)
		}
		entries, err := s.repo.History(ctx, db, userID, limit)
		if err != nil {
			return results.OperationResult[[]pointsdb.PointsHistory, error]{}, err
		}
		return results.SuccessResult[[]pointsdb.PointsHistory, error](entries), nil
	}))
}

// ManualAdjust lets staff grant or deduct points for a member of their club.
func (s *PointsService) ManualAdjust(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, amount int, reason string) (*pointsdb.PointsHistory, error) {
	entry, err := operation.Unwrap(operation.Run(s.op, ctx, "ManualAdjust", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*pointsdb.PointsHistory, error], error) {
		fail := func(err error) (results.OperationResult[*pointsdb.PointsHistory, error], error) {
			return results.FailureResult[*pointsdb.PointsHistory, error](err), nil
		}

		reason = strings.TrimSpace(reason)
		if reason == "" {
			return fail(apperr.Invalid("reason is required"))
		}
		if amount == 0 {
			return fail(apperr.Invalid("amount must not be zero"))
		}

		user, err := s.clubRepo.LockUser(ctx, db, userID)
		if err != nil {
			if errors.Is(err, clubdb.ErrUserNotFound) {
				return fail(apperr.NotFound("user %s not found", userID))
			}
			return results.OperationResult[*pointsdb.PointsHistory, error]{}, err
		}
		if user.ClubID == nil || !actor.IsStaffOf(*user.ClubID) {
			return fail(apperr.Forbidden("staff role in the member's club required"))
		}
		// The ledger, not the counter, decides the balance.
		balance, err := s.repo.LedgerSum(ctx, db, userID)
		if err != nil {
			return results.OperationResult[*pointsdb.PointsHistory, error]{}, err
		}
		if balance+amount < 0 {
			return fail(apperr.Invalid("adjustment would leave a negative balance"))
		}

		// Award errors roll the transaction back, classified or not.
		entry, err := s.Award(ctx, db, userID, amount, reason, pointsdomain.SourceManual)
		if err != nil {
			return results.OperationResult[*pointsdb.PointsHistory, error]{}, err
		}
		return results.SuccessResult[*pointsdb.PointsHistory, error](entry), nil
	}))
	if err != nil {
		return nil, err
	}
	s.Announce(ctx, entry)
	return entry, nil
}

// ClubRanking lists the actor's club ordered by points.
func (s *PointsService) ClubRanking(ctx context.Context, actor clubdomain.Actor, limit int) ([]clubdb.User, error) {
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	return operation.Unwrap(operation.Run(s.op, ctx, "ClubRanking", actor.ClubID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]clubdb.User, error], error) {
		if !actor.HasClub() {
			return results.FailureResult[[]clubdb.User, error](apperr.Forbidden("not a member of any club")), nil
		}
		users, err := s.clubRepo.ListClubRanking(ctx, db, actor.ClubID, limit)
		if err != nil {
			return results.OperationResult[[]clubdb.User, error]{}, err
		}
		return results.SuccessResult[[]clubdb.User, error](users), nil
	}))
}

// HistoryChart renders a member's cumulative points as a PNG.
func (s *PointsService) HistoryChart(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID) ([]byte, error) {
	return operation.Unwrap(operation.Run(s.op, ctx, "HistoryChart", userID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
		user, err := s.visibleUser(ctx, db, actor, userID)
		if err != nil {
			return operation.Classify[[]byte](err)
		}
		entries, err := s.repo.History(ctx, db, userID, 0)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}

		slices.Reverse(entries)
		at := make([]time.Time, len(entries))
		amounts := make([]int, len(entries))
		for i, e := range entries {
			at[i], amounts[i] = e.CreatedAt, e.Amount
		}

		png, err := GeneratePointsChart(user.Name, pointsdomain.Cumulative(at, amounts), s.palette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	}))
}

// visibleUser loads userID when the actor is that member or shares a club
// with them. Denials come back as classified errors.
func (s *PointsService) visibleUser(ctx context.Context, db bun.IDB, actor clubdomain.Actor, userID uuid.UUID) (*clubdb.User, error) {
	user, err := s.clubRepo.GetUser(ctx, db, userID)
	if err != nil {
		if errors.Is(err, clubdb.ErrUserNotFound) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, err
	}
	if actor.UserID != user.ID && (user.ClubID == nil || !actor.InClub(*user.ClubID)) {
		return nil, apperr.Forbidden("not a member of this user's club")
	}
	return user, nil
}

package specialtyservice

import (
	"context"
	"log/slog"

	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	"github.com/google/uuid"
)

type notice struct {
	userID   uuid.UUID
	title    string
	body     string
	severity notificationdomain.Severity
}

// effects collects what an operation announces once its transaction commits.
type effects struct {
	entries       []*pointsdb.PointsHistory
	notices       []notice
	statusChanges []specialtydomain.SpecialtyStatusChangedPayloadV1
}

func (fx *effects) notify(userID uuid.UUID, title, body string, severity notificationdomain.Severity) {
	fx.notices = append(fx.notices, notice{userID: userID, title: title, body: body, severity: severity})
}

func (fx *effects) merge(other *effects) {
	fx.entries = append(fx.entries, other.entries...)
	fx.notices = append(fx.notices, other.notices...)
	fx.statusChanges = append(fx.statusChanges, other.statusChanges...)
}

// flush runs the post-commit side effects. Every step is best effort.
func (s *SpecialtyService) flush(ctx context.Context, fx *effects) {
	if len(fx.entries) > 0 {
		s.ledger.Announce(ctx, fx.entries...)
	}
	for _, n := range fx.notices {
		s.notifier.Send(ctx, n.userID, n.title, n.body, n.severity)
	}
	if s.publisher == nil {
		return
	}
	for _, c := range fx.statusChanges {
		if err := s.publisher.Publish(ctx, specialtydomain.TopicSpecialtyStatusChangedV1, c, map[string]string{
			"user_id":      c.UserID.String(),
			"specialty_id": c.SpecialtyID.String(),
		}); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish specialty status change",
				slog.String("user_id", c.UserID.String()),
				slog.String("specialty_id", c.SpecialtyID.String()),
				slog.Any("error", err),
			)
		}
	}
}

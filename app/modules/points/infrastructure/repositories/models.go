package pointsdb

import (
	"time"

	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PointsHistory is one append-only ledger entry.
type PointsHistory struct {
	bun.BaseModel `bun:"table:points_history,alias:ph"`

	ID        uuid.UUID           `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID           `bun:"user_id,notnull,type:uuid"`
	Amount    int                 `bun:"amount,notnull"`
	Reason    string              `bun:"reason,notnull"`
	Source    pointsdomain.Source `bun:"source,notnull"`
	CreatedAt time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

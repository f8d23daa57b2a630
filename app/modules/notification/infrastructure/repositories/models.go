package notificationdb

import (
	"time"

	notificationdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notification is one inbox entry.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        uuid.UUID                   `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID                   `bun:"user_id,notnull,type:uuid"`
	Title     string                      `bun:"title,notnull"`
	Body      string                      `bun:"body,notnull,default:''"`
	Severity  notificationdomain.Severity `bun:"severity,notnull"`
	Read      bool                        `bun:"read,notnull,default:false"`
	CreatedAt time.Time                   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ReadAt    *time.Time                  `bun:"read_at"`
}

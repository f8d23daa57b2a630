package eventdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Event is a scheduled club activity.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	ClubID      uuid.UUID  `bun:"club_id,notnull,type:uuid"`
	Title       string     `bun:"title,notnull"`
	Description string     `bun:"description,notnull,default:''"`
	Location    string     `bun:"location,notnull,default:''"`
	StartsAt    time.Time  `bun:"starts_at,notnull"`
	Timezone    string     `bun:"timezone,notnull,default:'UTC'"`
	CreatedBy   *uuid.UUID `bun:"created_by,type:uuid"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

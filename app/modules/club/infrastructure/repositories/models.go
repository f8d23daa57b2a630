package clubdb

import (
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Club is a tenant.
type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Region    string    `bun:"region,notnull,default:''"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// User is a club member. Points is a denormalized counter of the points
// ledger and is only ever changed in the same transaction as a ledger insert.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 uuid.UUID       `bun:"id,pk,type:uuid"`
	ClubID             *uuid.UUID      `bun:"club_id,type:uuid"`
	Name               string          `bun:"name,notnull"`
	Email              string          `bun:"email,notnull,unique"`
	Role               clubdomain.Role `bun:"role,notnull"`
	Points             int             `bun:"points,notnull,default:0"`
	LastClassMilestone int             `bun:"last_class_milestone,notnull,default:0"`
	DbvClass           *string         `bun:"dbv_class"`
	CreatedAt          time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Actor projects the user into the caller identity used by services.
func (u *User) Actor() clubdomain.Actor {
	a := clubdomain.Actor{UserID: u.ID, Role: u.Role}
	if u.ClubID != nil {
		a.ClubID = *u.ClubID
	}
	return a
}

// BelongsTo reports whether the user is a member of clubID.
func (u *User) BelongsTo(clubID uuid.UUID) bool {
	return u.ClubID != nil && *u.ClubID == clubID
}

package clubdb

import (
	"context"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for club and member persistence.
type Repository interface {
	// CreateClub inserts a new club.
	CreateClub(ctx context.Context, db bun.IDB, club *Club) error

	// GetClub retrieves a club by id.
	GetClub(ctx context.Context, db bun.IDB, clubID uuid.UUID) (*Club, error)

	// CreateUser inserts a member. Returns ErrDuplicateEmail on a taken email.
	CreateUser(ctx context.Context, db bun.IDB, user *User) error

	// GetUser retrieves a member by id.
	GetUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*User, error)

	// LockUser retrieves a member and holds a row lock until the transaction ends.
	LockUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*User, error)

	// ListClubMembers returns every member of a club ordered by name.
	ListClubMembers(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]User, error)

	// ListClubStaff returns the instructors, admins and owners of a club.
	ListClubStaff(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]User, error)

	// ListClubRanking returns members ordered by points, highest first.
	ListClubRanking(ctx context.Context, db bun.IDB, clubID uuid.UUID, limit int) ([]User, error)

	// UpdateMembership sets a member's club and role.
	UpdateMembership(ctx context.Context, db bun.IDB, userID uuid.UUID, clubID *uuid.UUID, role clubdomain.Role) error

	// AdvanceClassMilestone moves the milestone watermark from -> to and
	// reports false when the stored watermark no longer equals from.
	AdvanceClassMilestone(ctx context.Context, db bun.IDB, userID uuid.UUID, from, to int) (bool, error)
}

package clubdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a club is not found.
	ErrNotFound = errors.New("club not found")
	// ErrUserNotFound is returned when a member is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new club repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateClub inserts a new club.
func (r *Impl) CreateClub(ctx context.Context, db bun.IDB, club *Club) error {
	db = r.resolveDB(db)
	if club.ID == uuid.Nil {
		club.ID = uuid.New()
	}
	now := time.Now().UTC()
	club.CreatedAt, club.UpdatedAt = now, now

	if _, err := db.NewInsert().Model(club).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// GetClub retrieves a club by id.
func (r *Impl) GetClub(ctx context.Context, db bun.IDB, clubID uuid.UUID) (*Club, error) {
	db = r.resolveDB(db)
	club := new(Club)
	err := db.NewSelect().
		Model(club).
		Where("c.id = ?", clubID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return club, nil
}

// CreateUser inserts a member.
func (r *Impl) CreateUser(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a member by id.
func (r *Impl) GetUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*User, error) {
	return r.getUser(ctx, r.resolveDB(db), userID, false)
}

// LockUser retrieves a member with SELECT ... FOR UPDATE.
func (r *Impl) LockUser(ctx context.Context, db bun.IDB, userID uuid.UUID) (*User, error) {
	return r.getUser(ctx, r.resolveDB(db), userID, true)
}

func (r *Impl) getUser(ctx context.Context, db bun.IDB, userID uuid.UUID, lock bool) (*User, error) {
	user := new(User)
	q := db.NewSelect().
		Model(user).
		Where("u.id = ?", userID)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListClubMembers returns every member of a club ordered by name.
func (r *Impl) ListClubMembers(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]User, error) {
	db = r.resolveDB(db)
	var users []User
	err := db.NewSelect().
		Model(&users).
		Where("u.club_id = ?", clubID).
		OrderExpr("u.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list club members: %w", err)
	}
	return users, nil
}

// ListClubStaff returns the instructors, admins and owners of a club.
func (r *Impl) ListClubStaff(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]User, error) {
	db = r.resolveDB(db)
	var users []User
	err := db.NewSelect().
		Model(&users).
		Where("u.club_id = ?", clubID).
		Where("u.role IN (?)", bun.In([]clubdomain.Role{clubdomain.RoleInstructor, clubdomain.RoleAdmin, clubdomain.RoleOwner})).
		OrderExpr("u.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list club staff: %w", err)
	}
	return users, nil
}

// ListClubRanking returns members ordered by points, highest first.
func (r *Impl) ListClubRanking(ctx context.Context, db bun.IDB, clubID uuid.UUID, limit int) ([]User, error) {
	db = r.resolveDB(db)
	var users []User
	q := db.NewSelect().
		Model(&users).
		Where("u.club_id = ?", clubID).
		OrderExpr("u.points DESC, u.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list club ranking: %w", err)
	}
	return users, nil
}

// UpdateMembership sets a member's club and role.
func (r *Impl) UpdateMembership(ctx context.Context, db bun.IDB, userID uuid.UUID, clubID *uuid.UUID, role clubdomain.Role) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("club_id = ?", clubID).
		Set("role = ?", role).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AdvanceClassMilestone is a compare-and-set on the milestone watermark.
func (r *Impl) AdvanceClassMilestone(ctx context.Context, db bun.IDB, userID uuid.UUID, from, to int) (bool, error) {
	if to <= from {
		return false, nil
	}
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("last_class_milestone = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Where("last_class_milestone = ?", from).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to advance class milestone: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

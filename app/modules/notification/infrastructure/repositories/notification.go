package notificationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when the notification does not exist for the member.
var ErrNotFound = errors.New("notification not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new notification repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, n *Notification) error {
	db = r.resolveDB(db)
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if _, err := db.NewInsert().
		Model(n).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("notificationdb.Create: %w", err)
	}
	return nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	db = r.resolveDB(db)
	var out []Notification
	q := db.NewSelect().
		Model(&out).
		Where("n.user_id = ?", userID).
		OrderExpr("n.created_at DESC")
	if unreadOnly {
		q = q.Where("n.read = FALSE")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("notificationdb.List: %w", err)
	}
	return out, nil
}

func (r *Impl) MarkRead(ctx context.Context, db bun.IDB, userID, id uuid.UUID) (*Notification, error) {
	db = r.resolveDB(db)
	n := new(Notification)
	err := db.NewUpdate().
		Model(n).
		Set("read = TRUE").
		Set("read_at = COALESCE(read_at, ?)", time.Now().UTC()).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("notificationdb.MarkRead: %w", err)
	}
	return n, nil
}

func (r *Impl) MarkAllRead(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Notification)(nil)).
		Set("read = TRUE").
		Set("read_at = ?", time.Now().UTC()).
		Where("user_id = ?", userID).
		Where("read = FALSE").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("notificationdb.MarkAllRead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("notificationdb.MarkAllRead: rows affected: %w", err)
	}
	return int(n), nil
}

func (r *Impl) CountUnread(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Notification)(nil)).
		Where("n.user_id = ?", userID).
		Where("n.read = FALSE").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("notificationdb.CountUnread: %w", err)
	}
	return count, nil
}

package pointsdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrUserNotFound is returned when the counter update matches no member.
var ErrUserNotFound = errors.New("user not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new points repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Record increments the member's counter and inserts the ledger entry. The
// counter goes first so an unknown member surfaces as ErrUserNotFound rather
// than as a foreign key violation on the insert.
func (r *Impl) Record(ctx context.Context, db bun.IDB, entry *PointsHistory) error {
	db = r.resolveDB(db)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := db.NewUpdate().
		Table("users").
		Set("points = points + ?", entry.Amount).
		Set("updated_at = ?", entry.CreatedAt).
		Where("id = ?", entry.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pointsdb.Record: counter: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pointsdb.Record: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("pointsdb.Record: insert: %w", err)
	}
	return nil
}

// History returns a member's entries, newest first.
func (r *Impl) History(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]PointsHistory, error) {
	db = r.resolveDB(db)
	var entries []PointsHistory
	q := db.NewSelect().
		Model(&entries).
		Where("ph.user_id = ?", userID).
		OrderExpr("ph.created_at DESC, ph.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("pointsdb.History: %w", err)
	}
	return entries, nil
}

// LedgerSum totals a member's entries.
func (r *Impl) LedgerSum(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	var sum int
	err := db.NewSelect().
		Model((*PointsHistory)(nil)).
		ColumnExpr("COALESCE(SUM(ph.amount), 0)").
		Where("ph.user_id = ?", userID).
		Scan(ctx, &sum)
	if err != nil {
		return 0, fmt.Errorf("pointsdb.LedgerSum: %w", err)
	}
	return sum, nil
}

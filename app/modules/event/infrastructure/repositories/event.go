package eventdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when the event does not exist.
var ErrNotFound = errors.New("event not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new event repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, e *Event) error {
	db = r.resolveDB(db)
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(e).Returning("created_at").Exec(ctx); err != nil {
		return fmt.Errorf("eventdb.Create: %w", err)
	}
	return nil
}

func (r *Impl) Get(ctx context.Context, db bun.IDB, id uuid.UUID) (*Event, error) {
	db = r.resolveDB(db)
	e := new(Event)
	if err := db.NewSelect().Model(e).Where("e.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("eventdb.Get: %w", err)
	}
	return e, nil
}

func (r *Impl) ListUpcoming(ctx context.Context, db bun.IDB, clubID uuid.UUID, from time.Time, limit int) ([]Event, error) {
	db = r.resolveDB(db)
	var out []Event
	if err := db.NewSelect().
		Model(&out).
		Where("e.club_id = ?", clubID).
		Where("e.starts_at >= ?", from).
		OrderExpr("e.starts_at ASC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("eventdb.ListUpcoming: %w", err)
	}
	return out, nil
}

func (r *Impl) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Event)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("eventdb.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

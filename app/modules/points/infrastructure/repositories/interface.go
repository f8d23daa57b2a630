package pointsdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for the points ledger.
type Repository interface {
	// Record inserts a ledger entry and bumps users.points on the same handle.
	// Callers pass a transaction so both writes commit together.
	Record(ctx context.Context, db bun.IDB, entry *PointsHistory) error

	// History returns a member's entries, newest first. limit <= 0 means all.
	History(ctx context.Context, db bun.IDB, userID uuid.UUID, limit int) ([]PointsHistory, error)

	// LedgerSum totals a member's entries.
	LedgerSum(ctx context.Context, db bun.IDB, userID uuid.UUID) (int, error)
}

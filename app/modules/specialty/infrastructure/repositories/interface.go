package specialtydb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for specialty and progress persistence.
type Repository interface {
	// ListSpecialties returns the catalog ordered by name with requirement counts.
	ListSpecialties(ctx context.Context, db bun.IDB) ([]Specialty, error)

	// GetSpecialty returns a specialty with its requirements ordered by position.
	GetSpecialty(ctx context.Context, db bun.IDB, id uuid.UUID) (*Specialty, error)

	// CreateSpecialty inserts a specialty. Returns ErrDuplicateCode on a taken code.
	CreateSpecialty(ctx context.Context, db bun.IDB, s *Specialty) error

	// DeleteSpecialty removes a specialty; requirements and progress cascade.
	DeleteSpecialty(ctx context.Context, db bun.IDB, id uuid.UUID) error

	// CreateRequirements inserts requirements in one statement.
	CreateRequirements(ctx context.Context, db bun.IDB, reqs []Requirement) error

	// GetRequirement retrieves a requirement by id.
	GetRequirement(ctx context.Context, db bun.IDB, id uuid.UUID) (*Requirement, error)

	// ListClassRequirements returns a class curriculum ordered by position.
	ListClassRequirements(ctx context.Context, db bun.IDB, dbvClass string) ([]Requirement, error)

	// NextClassPosition returns the position after the last requirement of a class.
	NextClassPosition(ctx context.Context, db bun.IDB, dbvClass string) (int, error)

	// CountClassProgress counts a member's approved class requirements and the curriculum size.
	CountClassProgress(ctx context.Context, db bun.IDB, userID uuid.UUID, dbvClass string) (approved, total int, err error)

	// CountSpecialtyProgress counts a member's approved requirements of a specialty and its size.
	CountSpecialtyProgress(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (approved, total int, err error)

	// ListUserRequirements returns the member's answers for the given requirements.
	ListUserRequirements(ctx context.Context, db bun.IDB, userID uuid.UUID, requirementIDs []uuid.UUID) ([]UserRequirement, error)

	// SaveSubmission upserts an answer as PENDING, replacing any prior answer and verdict.
	SaveSubmission(ctx context.Context, db bun.IDB, ur *UserRequirement) error

	// SetVerdict upserts the verdict, keeping any stored answer.
	SetVerdict(ctx context.Context, db bun.IDB, ur *UserRequirement) error

	// GetUserSpecialty retrieves the member's row for a specialty.
	GetUserSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (*UserSpecialty, error)

	// StartUserSpecialty inserts an IN_PROGRESS row unless one exists and
	// returns the stored row. created is false when the row already existed.
	StartUserSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (us *UserSpecialty, created bool, err error)

	// UpsertUserSpecialty writes status and awarded_at for the pair.
	UpsertUserSpecialty(ctx context.Context, db bun.IDB, us *UserSpecialty) error

	// UserProgress returns every specialty the member has touched.
	UserProgress(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]ProgressRow, error)

	// ClubProgress returns every touched (member, specialty) pair of a club.
	ClubProgress(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]ProgressRow, error)

	// PendingRequirements returns a club's answers awaiting a verdict, oldest first.
	PendingRequirements(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]PendingRequirementRow, error)

	// WaitingSpecialties returns a club's specialties awaiting the award, oldest first.
	WaitingSpecialties(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]WaitingSpecialtyRow, error)
}

package specialtydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when a specialty is not found.
	ErrNotFound = errors.New("specialty not found")
	// ErrRequirementNotFound is returned when a requirement is not found.
	ErrRequirementNotFound = errors.New("requirement not found")
	// ErrUserSpecialtyNotFound is returned when the member never started the specialty.
	ErrUserSpecialtyNotFound = errors.New("user specialty not found")
	// ErrDuplicateCode is returned when the specialty code is taken.
	ErrDuplicateCode = errors.New("specialty code already exists")
	// ErrUnknownReference is returned when a write points at a missing user or requirement.
	ErrUnknownReference = errors.New("referenced row does not exist")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new specialty repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func pgCode(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

func (r *Impl) ListSpecialties(ctx context.Context, db bun.IDB) ([]Specialty, error) {
	db = r.resolveDB(db)
	var out []Specialty
	err := db.NewSelect().
		Model(&out).
		ColumnExpr("s.*").
		ColumnExpr("(SELECT COUNT(*) FROM requirements AS r WHERE r.specialty_id = s.id) AS requirement_count").
		OrderExpr("s.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("specialtydb.ListSpecialties: %w", err)
	}
	return out, nil
}

func (r *Impl) GetSpecialty(ctx context.Context, db bun.IDB, id uuid.UUID) (*Specialty, error) {
	db = r.resolveDB(db)
	s := new(Specialty)
	if err := db.NewSelect().Model(s).Where("s.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("specialtydb.GetSpecialty: %w", err)
	}
	if err := db.NewSelect().
		Model(&s.Requirements).
		Where("r.specialty_id = ?", id).
		OrderExpr("r.position ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("specialtydb.GetSpecialty: requirements: %w", err)
	}
	s.RequirementCount = len(s.Requirements)
	return s, nil
}

func (r *Impl) CreateSpecialty(ctx context.Context, db bun.IDB, s *Specialty) error {
	db = r.resolveDB(db)
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(s).Exec(ctx); err != nil {
		if pgCode(err) == uniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("specialtydb.CreateSpecialty: %w", err)
	}
	return nil
}

func (r *Impl) DeleteSpecialty(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Specialty)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("specialtydb.DeleteSpecialty: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("specialtydb.DeleteSpecialty: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) CreateRequirements(ctx context.Context, db bun.IDB, reqs []Requirement) error {
	if len(reqs) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	now := time.Now().UTC()
	for i := range reqs {
		if reqs[i].ID == uuid.Nil {
			reqs[i].ID = uuid.New()
		}
		if reqs[i].CreatedAt.IsZero() {
			reqs[i].CreatedAt = now
		}
	}
	if _, err := db.NewInsert().Model(&reqs).Exec(ctx); err != nil {
		return fmt.Errorf("specialtydb.CreateRequirements: %w", err)
	}
	return nil
}

func (r *Impl) GetRequirement(ctx context.Context, db bun.IDB, id uuid.UUID) (*Requirement, error) {
	db = r.resolveDB(db)
	req := new(Requirement)
	if err := db.NewSelect().Model(req).Where("r.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("specialtydb.GetRequirement: %w", err)
	}
	return req, nil
}

func (r *Impl) ListClassRequirements(ctx context.Context, db bun.IDB, dbvClass string) ([]Requirement, error) {
	db = r.resolveDB(db)
	var out []Requirement
	err := db.NewSelect().
		Model(&out).
		Where("r.dbv_class = ?", dbvClass).
		OrderExpr("r.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("specialtydb.ListClassRequirements: %w", err)
	}
	return out, nil
}

func (r *Impl) NextClassPosition(ctx context.Context, db bun.IDB, dbvClass string) (int, error) {
	db = r.resolveDB(db)
	var next int
	err := db.NewSelect().
		Model((*Requirement)(nil)).
		ColumnExpr("COALESCE(MAX(r.position), 0) + 1").
		Where("r.dbv_class = ?", dbvClass).
		Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("specialtydb.NextClassPosition: %w", err)
	}
	return next, nil
}

type progressCount struct {
	Approved int `bun:"approved"`
	Total    int `bun:"total"`
}

func (r *Impl) CountClassProgress(ctx context.Context, db bun.IDB, userID uuid.UUID, dbvClass string) (int, int, error) {
	db = r.resolveDB(db)
	var c progressCount
	err := db.NewRaw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE ur.status = ?) AS approved
		FROM requirements AS r
		LEFT JOIN user_requirements AS ur ON ur.requirement_id = r.id AND ur.user_id = ?
		WHERE r.dbv_class = ?`,
		specialtydomain.RequirementApproved, userID, dbvClass,
	).Scan(ctx, &c)
	if err != nil {
		return 0, 0, fmt.Errorf("specialtydb.CountClassProgress: %w", err)
	}
	return c.Approved, c.Total, nil
}

func (r *Impl) CountSpecialtyProgress(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (int, int, error) {
	db = r.resolveDB(db)
	var c progressCount
	err := db.NewRaw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE ur.status = ?) AS approved
		FROM requirements AS r
		LEFT JOIN user_requirements AS ur ON ur.requirement_id = r.id AND ur.user_id = ?
		WHERE r.specialty_id = ?`,
		specialtydomain.RequirementApproved, userID, specialtyID,
	).Scan(ctx, &c)
	if err != nil {
		return 0, 0, fmt.Errorf("specialtydb.CountSpecialtyProgress: %w", err)
	}
	return c.Approved, c.Total, nil
}

func (r *Impl) ListUserRequirements(ctx context.Context, db bun.IDB, userID uuid.UUID, requirementIDs []uuid.UUID) ([]UserRequirement, error) {
	if len(requirementIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var out []UserRequirement
	err := db.NewSelect().
		Model(&out).
		Where("ur.user_id = ?", userID).
		Where("ur.requirement_id IN (?)", bun.In(requirementIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("specialtydb.ListUserRequirements: %w", err)
	}
	return out, nil
}

func (r *Impl) SaveSubmission(ctx context.Context, db bun.IDB, ur *UserRequirement) error {
	db = r.resolveDB(db)
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	ur.Status = specialtydomain.RequirementPending
	ur.ReviewedBy = nil
	ur.UpdatedAt = time.Now().UTC()

	err := db.NewInsert().
		Model(ur).
		On("CONFLICT (user_id, requirement_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("answer_text = EXCLUDED.answer_text").
		Set("answer_file_url = EXCLUDED.answer_file_url").
		Set("completed_at = EXCLUDED.completed_at").
		Set("reviewed_by = NULL").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return ErrUnknownReference
		}
		return fmt.Errorf("specialtydb.SaveSubmission: %w", err)
	}
	return nil
}

func (r *Impl) SetVerdict(ctx context.Context, db bun.IDB, ur *UserRequirement) error {
	db = r.resolveDB(db)
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	ur.UpdatedAt = time.Now().UTC()

	err := db.NewInsert().
		Model(ur).
		On("CONFLICT (user_id, requirement_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("completed_at = EXCLUDED.completed_at").
		Set("reviewed_by = EXCLUDED.reviewed_by").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return ErrUnknownReference
		}
		return fmt.Errorf("specialtydb.SetVerdict: %w", err)
	}
	return nil
}

func (r *Impl) GetUserSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (*UserSpecialty, error) {
	db = r.resolveDB(db)
	us := new(UserSpecialty)
	err := db.NewSelect().
		Model(us).
		Where("us.user_id = ?", userID).
		Where("us.specialty_id = ?", specialtyID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserSpecialtyNotFound
		}
		return nil, fmt.Errorf("specialtydb.GetUserSpecialty: %w", err)
	}
	return us, nil
}

func (r *Impl) StartUserSpecialty(ctx context.Context, db bun.IDB, userID, specialtyID uuid.UUID) (*UserSpecialty, bool, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	us := &UserSpecialty{
		ID:          uuid.New(),
		UserID:      userID,
		SpecialtyID: specialtyID,
		Status:      specialtydomain.SpecialtyInProgress,
		StartedAt:   now,
		UpdatedAt:   now,
	}
	res, err := db.NewInsert().
		Model(us).
		On("CONFLICT (user_id, specialty_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return nil, false, ErrUnknownReference
		}
		return nil, false, fmt.Errorf("specialtydb.StartUserSpecialty: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("specialtydb.StartUserSpecialty: rows affected: %w", err)
	}
	if n == 1 {
		return us, true, nil
	}
	existing, err := r.GetUserSpecialty(ctx, db, userID, specialtyID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Impl) UpsertUserSpecialty(ctx context.Context, db bun.IDB, us *UserSpecialty) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	if us.StartedAt.IsZero() {
		us.StartedAt = now
	}
	us.UpdatedAt = now

	err := db.NewInsert().
		Model(us).
		On("CONFLICT (user_id, specialty_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("awarded_at = EXCLUDED.awarded_at").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return ErrUnknownReference
		}
		return fmt.Errorf("specialtydb.UpsertUserSpecialty: %w", err)
	}
	return nil
}

// progressQuery lists touched (member, specialty) pairs for the members CTE.
const progressQuery = `
	WITH members AS (%s),
	touched AS (
		SELECT us.user_id, us.specialty_id
		FROM user_specialties AS us
		JOIN members AS m ON m.id = us.user_id
		UNION
		SELECT ur.user_id, r.specialty_id
		FROM user_requirements AS ur
		JOIN requirements AS r ON r.id = ur.requirement_id
		JOIN members AS m ON m.id = ur.user_id
		WHERE r.specialty_id IS NOT NULL
	)
	SELECT
		s.id AS specialty_id,
		s.code,
		s.name AS specialty_name,
		s.area,
		m.id AS user_id,
		m.name AS user_name,
		(SELECT COUNT(*) FROM requirements AS r WHERE r.specialty_id = s.id) AS total,
		(SELECT COUNT(*)
			FROM user_requirements AS ur
			JOIN requirements AS r ON r.id = ur.requirement_id
			WHERE r.specialty_id = s.id AND ur.user_id = m.id AND ur.status = 'APPROVED') AS approved,
		us.status,
		us.awarded_at
	FROM touched AS t
	JOIN specialties AS s ON s.id = t.specialty_id
	JOIN members AS m ON m.id = t.user_id
	LEFT JOIN user_specialties AS us ON us.user_id = t.user_id AND us.specialty_id = t.specialty_id
	ORDER BY s.name ASC, m.name ASC`

func (r *Impl) UserProgress(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]ProgressRow, error) {
	db = r.resolveDB(db)
	var out []ProgressRow
	query := fmt.Sprintf(progressQuery, "SELECT id, name FROM users WHERE id = ?")
	if err := db.NewRaw(query, userID).Scan(ctx, &out); err != nil {
		return nil, fmt.Errorf("specialtydb.UserProgress: %w", err)
	}
	return out, nil
}

func (r *Impl) ClubProgress(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]ProgressRow, error) {
	db = r.resolveDB(db)
	var out []ProgressRow
	query := fmt.Sprintf(progressQuery, "SELECT id, name FROM users WHERE club_id = ?")
	if err := db.NewRaw(query, clubID).Scan(ctx, &out); err != nil {
		return nil, fmt.Errorf("specialtydb.ClubProgress: %w", err)
	}
	return out, nil
}

func (r *Impl) PendingRequirements(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]PendingRequirementRow, error) {
	db = r.resolveDB(db)
	var out []PendingRequirementRow
	err := db.NewRaw(`
		SELECT
			ur.id AS user_requirement_id,
			u.id AS user_id,
			u.name AS user_name,
			r.id AS requirement_id,
			r.description,
			r.specialty_id,
			s.name AS specialty_name,
			r.dbv_class,
			ur.answer_text,
			ur.answer_file_url,
			ur.completed_at AS submitted_at
		FROM user_requirements AS ur
		JOIN users AS u ON u.id = ur.user_id
		JOIN requirements AS r ON r.id = ur.requirement_id
		LEFT JOIN specialties AS s ON s.id = r.specialty_id
		WHERE u.club_id = ? AND ur.status = ?
		ORDER BY ur.updated_at ASC`,
		clubID, specialtydomain.RequirementPending,
	).Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("specialtydb.PendingRequirements: %w", err)
	}
	return out, nil
}

func (r *Impl) WaitingSpecialties(ctx context.Context, db bun.IDB, clubID uuid.UUID) ([]WaitingSpecialtyRow, error) {
	db = r.resolveDB(db)
	var out []WaitingSpecialtyRow
	err := db.NewRaw(`
		SELECT
			us.id AS user_specialty_id,
			u.id AS user_id,
			u.name AS user_name,
			s.id AS specialty_id,
			s.code,
			s.name AS specialty_name,
			us.updated_at
		FROM user_specialties AS us
		JOIN users AS u ON u.id = us.user_id
		JOIN specialties AS s ON s.id = us.specialty_id
		WHERE u.club_id = ? AND us.status = ?
		ORDER BY us.updated_at ASC`,
		clubID, specialtydomain.SpecialtyWaitingApproval,
	).Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("specialtydb.WaitingSpecialties: %w", err)
	}
	return out, nil
}

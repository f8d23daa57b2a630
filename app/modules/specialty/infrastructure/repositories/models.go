package specialtydb

import (
	"time"

	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Specialty is a named achievement track.
type Specialty struct {
	bun.BaseModel `bun:"table:specialties,alias:s"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Code      string    `bun:"code,notnull,unique"`
	Name      string    `bun:"name,notnull"`
	Area      string    `bun:"area,notnull,default:''"`
	ImageURL  *string   `bun:"image_url"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	RequirementCount int           `bun:"requirement_count,scanonly"`
	Requirements     []Requirement `bun:"-"`
}

// Requirement belongs to exactly one of a specialty or a class curriculum.
type Requirement struct {
	bun.BaseModel `bun:"table:requirements,alias:r"`

	ID          uuid.UUID                       `bun:"id,pk,type:uuid"`
	SpecialtyID *uuid.UUID                      `bun:"specialty_id,type:uuid"`
	DbvClass    *string                         `bun:"dbv_class"`
	Position    int                             `bun:"position,notnull"`
	Description string                          `bun:"description,notnull"`
	Type        specialtydomain.RequirementType `bun:"type,notnull"`
	CreatedAt   time.Time                       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// UserSpecialty is a member's status on a specialty.
type UserSpecialty struct {
	bun.BaseModel `bun:"table:user_specialties,alias:us"`

	ID          uuid.UUID                       `bun:"id,pk,type:uuid"`
	UserID      uuid.UUID                       `bun:"user_id,notnull,type:uuid,unique:user_specialty"`
	SpecialtyID uuid.UUID                       `bun:"specialty_id,notnull,type:uuid,unique:user_specialty"`
	Status      specialtydomain.SpecialtyStatus `bun:"status,notnull"`
	StartedAt   time.Time                       `bun:"started_at,nullzero,notnull,default:current_timestamp"`
	AwardedAt   *time.Time                      `bun:"awarded_at"`
	UpdatedAt   time.Time                       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// UserRequirement is a member's latest answer and verdict on a requirement.
type UserRequirement struct {
	bun.BaseModel `bun:"table:user_requirements,alias:ur"`

	ID            uuid.UUID                         `bun:"id,pk,type:uuid"`
	UserID        uuid.UUID                         `bun:"user_id,notnull,type:uuid,unique:user_requirement"`
	RequirementID uuid.UUID                         `bun:"requirement_id,notnull,type:uuid,unique:user_requirement"`
	Status        specialtydomain.RequirementStatus `bun:"status,notnull"`
	AnswerText    *string                           `bun:"answer_text"`
	AnswerFileURL *string                           `bun:"answer_file_url"`
	CompletedAt   *time.Time                        `bun:"completed_at"`
	ReviewedBy    *uuid.UUID                        `bun:"reviewed_by,type:uuid"`
	UpdatedAt     time.Time                         `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ProgressRow is one (member, specialty) pair with at least some activity.
type ProgressRow struct {
	SpecialtyID   uuid.UUID                        `bun:"specialty_id"`
	Code          string                           `bun:"code"`
	SpecialtyName string                           `bun:"specialty_name"`
	Area          string                           `bun:"area"`
	UserID        uuid.UUID                        `bun:"user_id"`
	UserName      string                           `bun:"user_name"`
	Approved      int                              `bun:"approved"`
	Total         int                              `bun:"total"`
	Status        *specialtydomain.SpecialtyStatus `bun:"status"`
	AwardedAt     *time.Time                       `bun:"awarded_at"`
}

// PendingRequirementRow is an answer awaiting a verdict.
type PendingRequirementRow struct {
	UserRequirementID uuid.UUID  `bun:"user_requirement_id"`
	UserID            uuid.UUID  `bun:"user_id"`
	UserName          string     `bun:"user_name"`
	RequirementID     uuid.UUID  `bun:"requirement_id"`
	Description       string     `bun:"description"`
	SpecialtyID       *uuid.UUID `bun:"specialty_id"`
	SpecialtyName     *string    `bun:"specialty_name"`
	DbvClass          *string    `bun:"dbv_class"`
	AnswerText        *string    `bun:"answer_text"`
	AnswerFileURL     *string    `bun:"answer_file_url"`
	SubmittedAt       *time.Time `bun:"submitted_at"`
}

// WaitingSpecialtyRow is a specialty awaiting the final award.
type WaitingSpecialtyRow struct {
	UserSpecialtyID uuid.UUID `bun:"user_specialty_id"`
	UserID          uuid.UUID `bun:"user_id"`
	UserName        string    `bun:"user_name"`
	SpecialtyID     uuid.UUID `bun:"specialty_id"`
	Code            string    `bun:"code"`
	SpecialtyName   string    `bun:"specialty_name"`
	UpdatedAt       time.Time `bun:"updated_at"`
}

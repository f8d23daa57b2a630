package specialtyservice

import (
	"context"
	"time"

	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service is the specialty catalog and progress API.
type Service interface {
	ListSpecialties(ctx context.Context) ([]specialtydb.Specialty, error)
	GetSpecialty(ctx context.Context, id uuid.UUID) (*specialtydb.Specialty, error)
	CreateSpecialty(ctx context.Context, actor clubdomain.Actor, in NewSpecialty) (*specialtydb.Specialty, error)
	DeleteSpecialty(ctx context.Context, actor clubdomain.Actor, id uuid.UUID) error

	ListClassRequirements(ctx context.Context, dbvClass string) ([]specialtydb.Requirement, error)
	AddClassRequirement(ctx context.Context, actor clubdomain.Actor, dbvClass string, in NewRequirement) (*specialtydb.Requirement, error)
	ClassProgress(ctx context.Context, actor clubdomain.Actor, userID uuid.UUID, dbvClass string) (*ClassProgress, error)
	MySpecialties(ctx context.Context, actor clubdomain.Actor) ([]SpecialtyProgress, error)

	AssignSpecialty(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error)
	SubmitAnswer(ctx context.Context, actor clubdomain.Actor, requirementID uuid.UUID, answer Answer) (*specialtydb.UserRequirement, error)
	SetRequirementStatus(ctx context.Context, actor clubdomain.Actor, userID, requirementID uuid.UUID, verdict specialtydomain.RequirementStatus) (*specialtydb.UserRequirement, error)
	AwardSpecialty(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error)

	ClubDashboard(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]DashboardSpecialty, error)
	ExportDashboard(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) ([]byte, error)
	PendingWork(ctx context.Context, actor clubdomain.Actor, clubID uuid.UUID) (*PendingWork, error)
}

// NewRequirement is one requirement of a new specialty or class.
type NewRequirement struct {
	Description string
	Type        specialtydomain.RequirementType
}

// NewSpecialty is the input to CreateSpecialty.
type NewSpecialty struct {
	Code         string
	Name         string
	Area         string
	ImageURL     *string
	Requirements []NewRequirement
}

// Answer is a submission; at least one field must be set.
type Answer struct {
	Text    *string
	FileURL *string
}

// SpecialtyProgress is one specialty the member has touched.
type SpecialtyProgress struct {
	SpecialtyID uuid.UUID                       `json:"specialty_id"`
	Code        string                          `json:"code"`
	Name        string                          `json:"name"`
	Area        string                          `json:"area"`
	Approved    int                             `json:"approved"`
	Total       int                             `json:"total"`
	Percent     int                             `json:"percent"`
	Status      specialtydomain.SpecialtyStatus `json:"status"`
	AwardedAt   *time.Time                      `json:"awarded_at,omitempty"`
}

// RequirementProgress pairs a requirement with the member's latest answer.
type RequirementProgress struct {
	Requirement   specialtydb.Requirement            `json:"requirement"`
	Status        *specialtydomain.RequirementStatus `json:"status,omitempty"`
	AnswerText    *string                            `json:"answer_text,omitempty"`
	AnswerFileURL *string                            `json:"answer_file_url,omitempty"`
	CompletedAt   *time.Time                         `json:"completed_at,omitempty"`
}

// ClassProgress is a member's standing in a class curriculum.
type ClassProgress struct {
	UserID       uuid.UUID             `json:"user_id"`
	DbvClass     string                `json:"dbv_class"`
	Approved     int                   `json:"approved"`
	Total        int                   `json:"total"`
	Percent      int                   `json:"percent"`
	Milestone    int                   `json:"milestone"`
	Requirements []RequirementProgress `json:"requirements"`
}

// MemberProgress is one member's row on the dashboard.
type MemberProgress struct {
	UserID   uuid.UUID                       `json:"user_id"`
	Name     string                          `json:"name"`
	Approved int                             `json:"approved"`
	Total    int                             `json:"total"`
	Percent  int                             `json:"percent"`
	Status   specialtydomain.DashboardStatus `json:"status"`
}

// DashboardSpecialty groups member progress by specialty.
type DashboardSpecialty struct {
	SpecialtyID uuid.UUID        `json:"specialty_id"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Area        string           `json:"area"`
	Members     []MemberProgress `json:"members"`
}

// PendingWork is what staff still have to review.
type PendingWork struct {
	Requirements []specialtydb.PendingRequirementRow `json:"requirements"`
	Specialties  []specialtydb.WaitingSpecialtyRow   `json:"specialties"`
}

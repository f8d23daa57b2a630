package specialtyhandlers

import (
	"time"

	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/google/uuid"
)

type requirementRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
	Type        string `json:"type" validate:"omitempty,oneof=TEXT FILE text file"`
}

type createSpecialtyRequest struct {
	Code         string               `json:"code" validate:"required,max=32"`
	Name         string               `json:"name" validate:"required,max=120"`
	Area         string               `json:"area" validate:"max=120"`
	ImageURL     *string              `json:"image_url" validate:"omitempty,url"`
	Requirements []requirementRequest `json:"requirements" validate:"required,min=1,dive"`
}

type answerRequest struct {
	RequirementID uuid.UUID `json:"requirement_id" validate:"required"`
	Text          *string   `json:"text" validate:"omitempty,max=4000"`
	FileURL       *string   `json:"file_url" validate:"omitempty,url"`
}

type requirementResponse struct {
	ID          uuid.UUID                       `json:"id"`
	SpecialtyID *uuid.UUID                      `json:"specialty_id,omitempty"`
	DbvClass    *string                         `json:"dbv_class,omitempty"`
	Position    int                             `json:"position"`
	Description string                          `json:"description"`
	Type        specialtydomain.RequirementType `json:"type"`
}

type specialtyResponse struct {
	ID               uuid.UUID             `json:"id"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	Area             string                `json:"area"`
	ImageURL         *string               `json:"image_url,omitempty"`
	RequirementCount int                   `json:"requirement_count"`
	Requirements     []requirementResponse `json:"requirements,omitempty"`
}

type userRequirementResponse struct {
	ID            uuid.UUID                         `json:"id"`
	UserID        uuid.UUID                         `json:"user_id"`
	RequirementID uuid.UUID                         `json:"requirement_id"`
	Status        specialtydomain.RequirementStatus `json:"status"`
	AnswerText    *string                           `json:"answer_text,omitempty"`
	AnswerFileURL *string                           `json:"answer_file_url,omitempty"`
	CompletedAt   *time.Time                        `json:"completed_at,omitempty"`
	ReviewedBy    *uuid.UUID                        `json:"reviewed_by,omitempty"`
}

type userSpecialtyResponse struct {
	ID          uuid.UUID                       `json:"id"`
	UserID      uuid.UUID                       `json:"user_id"`
	SpecialtyID uuid.UUID                       `json:"specialty_id"`
	Status      specialtydomain.SpecialtyStatus `json:"status"`
	AwardedAt   *time.Time                      `json:"awarded_at,omitempty"`
}

func toRequirement(r specialtydb.Requirement) requirementResponse {
	return requirementResponse{
		ID:          r.ID,
		SpecialtyID: r.SpecialtyID,
		DbvClass:    r.DbvClass,
		Position:    r.Position,
		Description: r.Description,
		Type:        r.Type,
	}
}

func toRequirements(reqs []specialtydb.Requirement) []requirementResponse {
	out := make([]requirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequirement(r))
	}
	return out
}

func toSpecialty(s *specialtydb.Specialty) specialtyResponse {
	resp := specialtyResponse{
		ID:               s.ID,
		Code:             s.Code,
		Name:             s.Name,
		Area:             s.Area,
		ImageURL:         s.ImageURL,
		RequirementCount: s.RequirementCount,
	}
	if len(s.Requirements) > 0 {
		resp.Requirements = toRequirements(s.Requirements)
	}
	return resp
}

func toUserRequirement(ur *specialtydb.UserRequirement) userRequirementResponse {
	return userRequirementResponse{
		ID:            ur.ID,
		UserID:        ur.UserID,
		RequirementID: ur.RequirementID,
		Status:        ur.Status,
		AnswerText:    ur.AnswerText,
		AnswerFileURL: ur.AnswerFileURL,
		CompletedAt:   ur.CompletedAt,
		ReviewedBy:    ur.ReviewedBy,
	}
}

func toUserSpecialty(us *specialtydb.UserSpecialty) userSpecialtyResponse {
	return userSpecialtyResponse{
		ID:          us.ID,
		UserID:      us.UserID,
		SpecialtyID: us.SpecialtyID,
		Status:      us.Status,
		AwardedAt:   us.AwardedAt,
	}
}

package clubhandlers

import (
	"time"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	"github.com/google/uuid"
)

type createClubRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Region string `json:"region" validate:"max=120"`
}

type addMemberRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Role     string  `json:"role" validate:"required"`
	DbvClass *string `json:"dbv_class,omitempty" validate:"omitempty,max=60"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type clubResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"created_at"`
}

type userResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ClubID             *uuid.UUID `json:"club_id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	Points             int        `json:"points"`
	LastClassMilestone int        `json:"last_class_milestone"`
	DbvClass           *string    `json:"dbv_class"`
}

func toClubResponse(c *clubdb.Club) clubResponse {
	return clubResponse{ID: c.ID, Name: c.Name, Region: c.Region, CreatedAt: c.CreatedAt}
}

func toUserResponse(u *clubdb.User) userResponse {
	return userResponse{
		ID:                 u.ID,
		ClubID:             u.ClubID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role.String(),
		Points:             u.Points,
		LastClassMilestone: u.LastClassMilestone,
		DbvClass:           u.DbvClass,
	}
}

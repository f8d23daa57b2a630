package clubhandlers

import (
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	clubservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/application"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
)

// ClubHandlers implements the Handlers interface.
type ClubHandlers struct {
	service clubservice.Service
	logger  *slog.Logger
}

// NewClubHandlers creates a new ClubHandlers instance.
func NewClubHandlers(service clubservice.Service, logger *slog.Logger) Handlers {
	return &ClubHandlers{
		service: service,
		logger:  logger,
	}
}

// CreateClub handles POST /clubs.
func (h *ClubHandlers) CreateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	var req createClubRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}

	club, err := h.service.CreateClub(r.Context(), actor, req.Name, req.Region)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusCreated, toClubResponse(club))
}

// GetClub handles GET /clubs/{id}.
func (h *ClubHandlers) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}

	club, err := h.service.GetClub(r.Context(), clubID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toClubResponse(club))
}

// ListMembers handles GET /clubs/{id}/members.
func (h *ClubHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	clubID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}

	users, err := h.service.ListMembers(r.Context(), actor, clubID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	httpserver.JSON(w, http.StatusOK, out)
}

// AddMember handles POST /clubs/{id}/members.
func (h *ClubHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	clubID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	var req addMemberRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	role, ok := clubdomain.ParseRole(req.Role)
	if !ok {
		httpserver.Error(w, r, h.logger, apperr.Invalid("unknown role %q", req.Role))
		return
	}

	user, err := h.service.AddMember(r.Context(), actor, clubID, clubservice.NewMember{
		Name:     req.Name,
		Email:    req.Email,
		Role:     role,
		DbvClass: req.DbvClass,
	})
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusCreated, toUserResponse(user))
}

// UpdateMemberRole handles PATCH /users/{id}/role.
func (h *ClubHandlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	userID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	var req updateRoleRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	role, ok := clubdomain.ParseRole(req.Role)
	if !ok {
		httpserver.Error(w, r, h.logger, apperr.Invalid("unknown role %q", req.Role))
		return
	}

	user, err := h.service.UpdateMemberRole(r.Context(), actor, userID, role)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toUserResponse(user))
}

// Me handles GET /users/me.
func (h *ClubHandlers) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), actor.UserID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toUserResponse(user))
}

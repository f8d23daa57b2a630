package specialtyhandlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	specialtyservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/application"
	specialtydomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/domain"
	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SpecialtyHandlers implements the Handlers interface.
type SpecialtyHandlers struct {
	service specialtyservice.Service
	logger  *slog.Logger
}

// NewSpecialtyHandlers creates a new SpecialtyHandlers instance.
func NewSpecialtyHandlers(service specialtyservice.Service, logger *slog.Logger) Handlers {
	return &SpecialtyHandlers{service: service, logger: logger}
}

func (h *SpecialtyHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpserver.Error(w, r, h.logger, err)
}

// List handles GET /specialties.
func (h *SpecialtyHandlers) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSpecialties(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]specialtyResponse, 0, len(list))
	for i := range list {
		out = append(out, toSpecialty(&list[i]))
	}
	httpserver.JSON(w, http.StatusOK, out)
}

// Get handles GET /specialties/{id}.
func (h *SpecialtyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	spec, err := h.service.GetSpecialty(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toSpecialty(spec))
}

// Create handles POST /specialties.
func (h *SpecialtyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	var req createSpecialtyRequest
	if err := httpserver.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	in := specialtyservice.NewSpecialty{Code: req.Code, Name: req.Name, Area: req.Area, ImageURL: req.ImageURL}
	for _, rr := range req.Requirements {
		in.Requirements = append(in.Requirements, specialtyservice.NewRequirement{
			Description: rr.Description,
			Type:        specialtydomain.RequirementType(rr.Type),
		})
	}
	spec, err := h.service.CreateSpecialty(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusCreated, toSpecialty(spec))
}

// Delete handles DELETE /specialties/{id}.
func (h *SpecialtyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	id, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.service.DeleteSpecialty(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// My handles GET /specialties/my.
func (h *SpecialtyHandlers) My(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	progress, err := h.service.MySpecialties(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, progress)
}

// Pending handles GET /specialties/pending for the caller's club.
func (h *SpecialtyHandlers) Pending(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	work, err := h.service.PendingWork(r.Context(), actor, actor.ClubID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, work)
}

// Dashboard handles GET /specialties/dashboard for the caller's club.
func (h *SpecialtyHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	dashboard, err := h.service.ClubDashboard(r.Context(), actor, actor.ClubID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, dashboard)
}

// ExportDashboard handles GET /specialties/dashboard/export.
func (h *SpecialtyHandlers) ExportDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	data, err := h.service.ExportDashboard(r.Context(), actor, actor.ClubID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="dashboard-%s.xlsx"`, actor.ClubID))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Answer handles POST /specialties/answer.
func (h *SpecialtyHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := httpserver.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ur, err := h.service.SubmitAnswer(r.Context(), actor, req.RequirementID, specialtyservice.Answer{Text: req.Text, FileURL: req.FileURL})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toUserRequirement(ur))
}

// SetStatus handles POST /specialties/requirement/{userId}/{requirementId}/{status}.
func (h *SpecialtyHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	userID, err := httpserver.UUIDParam(r, "userId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reqID, err := httpserver.UUIDParam(r, "requirementId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	verdict, ok := specialtydomain.ParseVerdict(chi.URLParam(r, "status"))
	if !ok {
		h.fail(w, r, apperr.Invalid("status must be PENDING, APPROVED or REJECTED"))
		return
	}
	ur, err := h.service.SetRequirementStatus(r.Context(), actor, userID, reqID, verdict)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toUserRequirement(ur))
}

// Award handles POST /specialties/award/{userId}/{specialtyId}.
func (h *SpecialtyHandlers) Award(w http.ResponseWriter, r *http.Request) {
	h.userSpecialtyAction(w, r, h.service.AwardSpecialty)
}

// Assign handles POST /specialties/assign/{userId}/{specialtyId}.
func (h *SpecialtyHandlers) Assign(w http.ResponseWriter, r *http.Request) {
	h.userSpecialtyAction(w, r, h.service.AssignSpecialty)
}

func (h *SpecialtyHandlers) userSpecialtyAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, actor clubdomain.Actor, userID, specialtyID uuid.UUID) (*specialtydb.UserSpecialty, error)) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	userID, err := httpserver.UUIDParam(r, "userId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	specID, err := httpserver.UUIDParam(r, "specialtyId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	us, err := action(r.Context(), actor, userID, specID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toUserSpecialty(us))
}

// ClassRequirements handles GET /specialties/classes/{class}.
func (h *SpecialtyHandlers) ClassRequirements(w http.ResponseWriter, r *http.Request) {
	class, err := classParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reqs, err := h.service.ListClassRequirements(r.Context(), class)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, toRequirements(reqs))
}

// AddClassRequirement handles POST /specialties/classes/{class}.
func (h *SpecialtyHandlers) AddClassRequirement(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	class, err := classParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req requirementRequest
	if err := httpserver.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.service.AddClassRequirement(r.Context(), actor, class, specialtyservice.NewRequirement{
		Description: req.Description,
		Type:        specialtydomain.RequirementType(req.Type),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusCreated, toRequirement(*created))
}

// ClassProgress handles GET /specialties/classes/{class}/progress. The
// optional user_id query selects another member; it defaults to the caller.
func (h *SpecialtyHandlers) ClassProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	class, err := classParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	userID := actor.UserID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		if userID, err = uuid.Parse(raw); err != nil {
			h.fail(w, r, apperr.Invalid("user_id must be a UUID"))
			return
		}
	}
	progress, err := h.service.ClassProgress(r.Context(), actor, userID, class)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.JSON(w, http.StatusOK, progress)
}

func classParam(r *http.Request) (string, error) {
	class, err := url.PathUnescape(chi.URLParam(r, "class"))
	if err != nil {
		return "", apperr.Invalid("class is not a valid path segment")
	}
	return class, nil
}

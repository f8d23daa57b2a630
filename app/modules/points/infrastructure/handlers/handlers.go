package pointshandlers

import (
	"log/slog"
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	pointsservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/application"
	pointsdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
	"github.com/google/uuid"
)

// PointsHandlers implements the Handlers interface.
type PointsHandlers struct {
	service pointsservice.Service
	logger  *slog.Logger
}

// NewPointsHandlers creates a new PointsHandlers instance.
func NewPointsHandlers(service pointsservice.Service, logger *slog.Logger) Handlers {
	return &PointsHandlers{service: service, logger: logger}
}

type adjustRequest struct {
	Amount int    `json:"amount" validate:"required,ne=0"`
	Reason string `json:"reason" validate:"required,max=200"`
}

type entryResponse struct {
	ID        uuid.UUID           `json:"id"`
	Amount    int                 `json:"amount"`
	Reason    string              `json:"reason"`
	Source    pointsdomain.Source `json:"source"`
	CreatedAt time.Time           `json:"created_at"`
}

type pointsResponse struct {
	pointsdomain.Balance
	History []entryResponse `json:"history"`
}

type rankingEntry struct {
	Position int       `json:"position"`
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Points   int       `json:"points"`
}

func toEntry(e *pointsdb.PointsHistory) entryResponse {
	return entryResponse{ID: e.ID, Amount: e.Amount, Reason: e.Reason, Source: e.Source, CreatedAt: e.CreatedAt}
}

// Me handles GET /points/me.
func (h *PointsHandlers) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	h.writePoints(w, r, actor, actor.UserID)
}

// UserPoints handles GET /points/users/{id}.
func (h *PointsHandlers) UserPoints(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	userID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	h.writePoints(w, r, actor, userID)
}

func (h *PointsHandlers) writePoints(w http.ResponseWriter, r *http.Request, actor clubdomain.Actor, userID uuid.UUID) {
	limit, err := httpserver.IntQuery(r, "limit", 20)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	balance, err := h.service.GetBalance(r.Context(), actor, userID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	entries, err := h.service.History(r.Context(), actor, userID, limit)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}

	resp := pointsResponse{Balance: balance, History: make([]entryResponse, 0, len(entries))}
	for i := range entries {
		resp.History = append(resp.History, toEntry(&entries[i]))
	}
	httpserver.JSON(w, http.StatusOK, resp)
}

// UserChart handles GET /points/users/{id}/chart.png.
func (h *PointsHandlers) UserChart(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	userID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	png, err := h.service.HistoryChart(r.Context(), actor, userID)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Adjust handles POST /points/users/{id}/adjust.
func (h *PointsHandlers) Adjust(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	userID, err := httpserver.UUIDParam(r, "id")
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	var req adjustRequest
	if err := httpserver.Decode(r, &req); err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	entry, err := h.service.ManualAdjust(r.Context(), actor, userID, req.Amount, req.Reason)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	httpserver.JSON(w, http.StatusCreated, toEntry(entry))
}

// Ranking handles GET /points/ranking.
func (h *PointsHandlers) Ranking(w http.ResponseWriter, r *http.Request) {
	actor, ok := authhandlers.CurrentActor(w, r)
	if !ok {
		return
	}
	limit, err := httpserver.IntQuery(r, "limit", 20)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	users, err := h.service.ClubRanking(r.Context(), actor, limit)
	if err != nil {
		httpserver.Error(w, r, h.logger, err)
		return
	}
	out := make([]rankingEntry, 0, len(users))
	for i, u := range users {
		out = append(out, rankingEntry{Position: i + 1, UserID: u.ID, Name: u.Name, Points: u.Points})
	}
	httpserver.JSON(w, http.StatusOK, out)
}

// Package read реализует HTTP-обработчик страницы профиля: свежий профиль из
// биллинга, снимок в сессии попутно обновляется.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/models"
)

// Service операции биллинга для профиля.
type Service interface {
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// Sessions операции над состоянием сессии.
type Sessions interface {
	SetUser(ctx context.Context, sid string, user *models.User) error
}

// Handler управляет HTTP-запросами чтения профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить профиль"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	user, err := h.service.CurrentUser(r.Context(), sid)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}

	if err := h.sessions.SetUser(r.Context(), sid, user); err != nil {
		log.Warn("failed to refresh session snapshot", sl.Err(err))
	}

	render.JSON(w, r, response.OKWithData(user))
}

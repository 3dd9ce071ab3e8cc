// Package update реализует HTTP-обработчик редактирования профиля. После
// сохранения профиль перечитывается из биллинга и снимок в сессии обновляется,
// чтобы шапка фронтенда сразу показала новые данные.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/models"
)

// Request тело запроса на редактирование профиля.
type Request struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// Service операции биллинга для профиля.
type Service interface {
	UpdateProfile(ctx context.Context, sessionID, fullName, phone string) error
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// Sessions операции над состоянием сессии.
type Sessions interface {
	SetUser(ctx context.Context, sid string, user *models.User) error
}

// Handler управляет HTTP-запросами редактирования профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Редактирование профиля
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body Request true "Имя и телефон"
// @Success 200 {object} response.Response "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустое имя"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил изменения"
// @Router /profile [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sid := middlewarectx.SessionFromContext(r.Context())

	if err := h.service.UpdateProfile(r.Context(), sid, req.FullName, req.Phone); err != nil {
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	user, err := h.service.CurrentUser(r.Context(), sid)
	if err != nil {
		log.Error("failed to reload profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}

	if err := h.sessions.SetUser(r.Context(), sid, user); err != nil {
		log.Warn("failed to refresh session snapshot", sl.Err(err))
	}

	log.Info("profile updated", slog.String("login", user.Login))
	render.JSON(w, r, response.OKWithData(user))
}

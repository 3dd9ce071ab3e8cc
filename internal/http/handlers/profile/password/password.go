// Package password реализует HTTP-обработчик смены пароля. Сессия при смене
// пароля сохраняется, переавторизация не требуется.
package password

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
)

// Request тело запроса на смену пароля. Совпадение паролей проверяется до
// обращения к биллингу.
type Request struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Service операции биллинга для смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, sessionID, password string) error
}

// Handler управляет HTTP-запросами на смену пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена пароля
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body Request true "Новый пароль с подтверждением"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустые поля или несовпадающие пароли"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил смену пароля"
// @Router /profile/passwd [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.password"
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

	if req.Password != req.ConfirmPassword {
		log.Error("passwords mismatch")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("passwords do not match"))
		return
	}

	sid := middlewarectx.SessionFromContext(r.Context())

	if err := h.service.ChangePassword(r.Context(), sid, req.Password); err != nil {
		log.Error("failed to change password", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not change password"))
		return
	}

	log.Info("password changed")
	render.JSON(w, r, response.OK())
}

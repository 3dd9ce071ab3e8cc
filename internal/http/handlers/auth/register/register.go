// Package register реализует HTTP-обработчик регистрации нового пользователя.
//
// Сессия при регистрации не создаётся: пользователь затем входит обычным
// способом, сохранив введённый логин.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
)

// Request тело запроса на регистрацию. Совпадение паролей проверяется до
// обращения к биллингу.
type Request struct {
	Login           string `json:"login" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Service операции биллинга для регистрации.
type Service interface {
	Register(ctx context.Context, login, password string) error
}

// Handler управляет HTTP-запросами на регистрацию.
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
// @Summary Регистрация нового пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Логин и пароль с подтверждением"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, пустые поля или несовпадающие пароли"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил регистрацию"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
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

	if err := h.service.Register(r.Context(), req.Login, req.Password); err != nil {
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("user registered", slog.String("login", req.Login))
	render.JSON(w, r, response.OK())
}

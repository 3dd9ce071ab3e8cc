// Package login реализует HTTP-обработчик входа по логину и паролю.
//
// Handler проверяет поля запроса, аутентифицирует пользователя в биллинге,
// загружает его профиль, сохраняет снимок в сессии и выставляет сессионную
// куку со скользящим сроком.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/models"
	"github.com/shmhost/client-portal/internal/session"
)

// Request тело запроса на вход.
type Request struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service операции биллинга для входа.
type Service interface {
	Login(ctx context.Context, login, password string) (string, error)
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// Sessions операции над состоянием сессии.
type Sessions interface {
	SetUser(ctx context.Context, sid string, user *models.User) error
	IsAdmin(user *models.User) bool
	TTL() time.Duration
}

// Handler управляет HTTP-запросами на вход.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessions   Sessions
	cookieName string
	validate   *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, sessions Sessions, cookieName string) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessions:   sessions,
		cookieName: cookieName,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по логину и паролю
// @Description Аутентифицирует пользователя в биллинге и выставляет сессионную куку.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Логин и пароль"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} response.ErrorResponse "Неверный логин или пароль"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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

	token, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		log.Error("login rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid login or password"))
		return
	}

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		log.Error("failed to fetch user after login", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid login or password"))
		return
	}

	if err := h.sessions.SetUser(r.Context(), token, user); err != nil {
		log.Error("failed to store session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create session"))
		return
	}

	http.SetCookie(w, session.IssueCookie(h.cookieName, token, h.sessions.TTL()))

	log.Info("user logged in", slog.String("login", user.Login))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":     user,
		"is_admin": h.sessions.IsAdmin(user),
	}))
}

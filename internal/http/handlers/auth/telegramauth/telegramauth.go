// Package telegramauth реализует HTTP-обработчик входа через Telegram.
//
// Подписанные данные Telegram Login Widget (или initData из Telegram
// WebApp) пересылаются биллингу как есть — подпись проверяет бэкенд. При
// успехе создаётся сессия, а фото из данных Telegram зеркалируется в её
// запись.
package telegramauth

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

// Service операции биллинга для входа через Telegram.
type Service interface {
	TelegramWidgetAuth(ctx context.Context, payload models.TelegramWidgetAuth) (string, error)
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// Sessions операции над состоянием сессии.
type Sessions interface {
	SetUser(ctx context.Context, sid string, user *models.User) error
	SetTelegramPhoto(ctx context.Context, sid, photoURL string) error
	IsAdmin(user *models.User) bool
	TTL() time.Duration
}

// Handler управляет HTTP-запросами на вход через Telegram.
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
// @Summary Вход через Telegram Login Widget
// @Description Пересылает подписанные данные виджета биллингу и создаёт сессию.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.TelegramWidgetAuth true "Данные виджета"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неполные данные"
// @Failure 401 {object} response.ErrorResponse "Биллинг не подтвердил подпись"
// @Router /auth/telegram [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.telegramauth"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.TelegramWidgetAuth
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

	token, err := h.service.TelegramWidgetAuth(r.Context(), req)
	if err != nil {
		log.Error("telegram auth rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("telegram authentication failed"))
		return
	}

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		log.Error("failed to fetch user after telegram auth", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("telegram authentication failed"))
		return
	}

	if err := h.sessions.SetUser(r.Context(), token, user); err != nil {
		log.Error("failed to store session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create session"))
		return
	}

	if req.PhotoURL != "" {
		if err := h.sessions.SetTelegramPhoto(r.Context(), token, req.PhotoURL); err != nil {
			log.Warn("failed to store telegram photo", sl.Err(err))
		}
	}

	http.SetCookie(w, session.IssueCookie(h.cookieName, token, h.sessions.TTL()))

	log.Info("user logged in via telegram", slog.String("login", user.Login))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":     user,
		"is_admin": h.sessions.IsAdmin(user),
	}))
}

// Package me реализует стартовую проверку авторизации.
//
// Фронтенд вызывает этот обработчик один раз при загрузке. Без куки ответ —
// 401 и анонимный режим. С кукой профиль запрашивается у биллинга: успех
// обновляет снимок в сессии, любой отказ стирает куку и запись сессии.
// Оба пути завершаются детерминированно — зависшего состояния загрузки у
// фронтенда не бывает.
package me

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
	"github.com/shmhost/client-portal/internal/session"
)

// Service операции биллинга для проверки сессии.
type Service interface {
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// Sessions операции над состоянием сессии.
type Sessions interface {
	Get(ctx context.Context, sid string) (*session.Data, bool, error)
	SetUser(ctx context.Context, sid string, user *models.User) error
	Logout(ctx context.Context, sid string) error
	IsAdmin(user *models.User) bool
}

// Handler управляет стартовой проверкой авторизации.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessions   Sessions
	cookieName string
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, sessions Sessions, cookieName string) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Проверяет сессию при старте фронтенда и возвращает профиль.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Сессии нет или биллинг её отверг"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())
	if sid == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.CurrentUser(r.Context(), sid)
	if err != nil {
		// Биллинг отверг токен: чистим куку и запись сессии, фронтенд
		// уходит в анонимный режим.
		log.Info("stored session rejected", sl.Err(err))
		if derr := h.sessions.Logout(r.Context(), sid); derr != nil {
			log.Warn("failed to drop session record", sl.Err(derr))
		}
		http.SetCookie(w, session.ClearCookie(h.cookieName))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.sessions.SetUser(r.Context(), sid, user); err != nil {
		log.Warn("failed to refresh session snapshot", sl.Err(err))
	}

	var telegramPhoto string
	if data, found, err := h.sessions.Get(r.Context(), sid); err == nil && found {
		telegramPhoto = data.TelegramPhoto
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":           user,
		"is_admin":       h.sessions.IsAdmin(user),
		"telegram_photo": telegramPhoto,
	}))
}

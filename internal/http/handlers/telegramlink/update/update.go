// Package update реализует HTTP-обработчик изменения привязки аккаунта к
// Telegram. Имя пользователя сохраняется без ведущего @, как его хранит
// биллинг.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/models"
)

// Request тело запроса на изменение привязки. Пустое имя отвязывает аккаунт.
type Request struct {
	Username string `json:"username"`
}

// Service операции биллинга для привязки Telegram.
type Service interface {
	UpdateTelegramSettings(ctx context.Context, sessionID string, settings models.TelegramSettings) error
}

// Handler управляет HTTP-запросами изменения привязки Telegram.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изменение привязки Telegram
// @Tags Telegram
// @Accept json
// @Produce json
// @Param request body Request true "Имя пользователя Telegram, пустое — отвязка"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил изменения"
// @Router /telegram [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegramlink.update"
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

	sid := middlewarectx.SessionFromContext(r.Context())

	settings := models.TelegramSettings{
		Username: strings.TrimPrefix(strings.TrimSpace(req.Username), "@"),
	}
	if err := h.service.UpdateTelegramSettings(r.Context(), sid, settings); err != nil {
		log.Error("failed to update telegram settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update telegram settings"))
		return
	}

	log.Info("telegram settings updated", slog.String("username", settings.Username))
	render.JSON(w, r, response.OK())
}

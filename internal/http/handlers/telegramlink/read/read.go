// Package read реализует HTTP-обработчик чтения привязки аккаунта к Telegram.
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

// Service операции биллинга для привязки Telegram.
type Service interface {
	TelegramSettings(ctx context.Context, sessionID string) (*models.TelegramSettings, error)
}

// Handler управляет HTTP-запросами чтения привязки Telegram.
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
// @Summary Привязка Telegram
// @Tags Telegram
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить привязку"
// @Router /telegram [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegramlink.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	settings, err := h.service.TelegramSettings(r.Context(), sid)
	if err != nil {
		log.Error("failed to load telegram settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load telegram settings"))
		return
	}

	render.JSON(w, r, response.OKWithData(settings))
}

// Package forecast реализует HTTP-обработчик прогноза списаний: сколько и за
// какие услуги будет списано в ближайший период.
package forecast

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

// Service операции биллинга для прогноза списаний.
type Service interface {
	Forecast(ctx context.Context, sessionID string) (*models.Forecast, error)
}

// Handler управляет HTTP-запросами прогноза списаний.
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
// @Summary Прогноз списаний
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить прогноз"
// @Router /pay/forecast [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.forecast"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	fc, err := h.service.Forecast(r.Context(), sid)
	if err != nil {
		log.Error("failed to load forecast", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load forecast"))
		return
	}

	log.Info("forecast loaded", slog.Float64("total", fc.Total))
	render.JSON(w, r, response.OKWithData(fc))
}

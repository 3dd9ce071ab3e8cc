// Package paysystems реализует HTTP-обработчик списка платёжных систем.
// Список кэшируется на сессию и грузится лениво при первом обращении.
package paysystems

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

// Service бизнес-логика платежей.
type Service interface {
	PaySystems(ctx context.Context, sid string) ([]models.PaySystem, error)
}

// Handler управляет HTTP-запросами списка платёжных систем.
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
// @Summary Платёжные системы
// @Description Возвращает доступные платёжные системы без дублей по имени.
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить платёжные системы"
// @Router /pay/systems [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paysystems"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	systems, err := h.service.PaySystems(r.Context(), sid)
	if err != nil {
		log.Error("failed to load pay systems", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load pay systems"))
		return
	}

	log.Info("pay systems loaded", slog.Int("count", len(systems)))
	render.JSON(w, r, response.OKWithData(systems))
}

// Package catalog реализует HTTP-обработчик каталога заказываемых услуг:
// группы по категориям, сортировка по стоимости и текущий баланс в одном
// ответе.
package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/services/ordering"
)

// Service бизнес-логика каталога.
type Service interface {
	Catalog(ctx context.Context, sid string) (*ordering.Catalog, error)
}

// Handler управляет HTTP-запросами каталога услуг.
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
// @Summary Каталог заказываемых услуг
// @Description Возвращает каталог, сгруппированный по категориям, вместе с балансом.
// @Tags Order
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить каталог"
// @Router /order/catalog [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.catalog"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	catalog, err := h.service.Catalog(r.Context(), sid)
	if err != nil {
		log.Error("failed to load catalog", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load services"))
		return
	}

	log.Info("catalog loaded", slog.Int("groups", len(catalog.Groups)))
	render.JSON(w, r, response.OKWithData(catalog))
}

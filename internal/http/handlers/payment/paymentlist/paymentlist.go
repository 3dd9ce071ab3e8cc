// Package paymentlist реализует HTTP-обработчик истории платежей. Биллинг
// отдаёт историю целиком, страницы режутся на стороне портала.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/paginate"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/models"
)

// Service операции биллинга для истории платежей.
type Service interface {
	Payments(ctx context.Context, sessionID string) ([]models.Payment, error)
}

// Handler управляет HTTP-запросами истории платежей.
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
// @Summary История платежей
// @Description Возвращает страницу истории платежей пользователя.
// @Tags Payment
// @Produce json
// @Param page query int false "Номер страницы, с 1"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить платежи"
// @Router /pay/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	items, err := h.service.Payments(r.Context(), sid)
	if err != nil {
		log.Error("failed to load payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load payments"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	lo, hi, pages := paginate.Slice(len(items), page, paginate.DefaultPerPage)

	log.Info("payments loaded", slog.Int("total", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items[lo:hi],
		"total": len(items),
		"pages": pages,
	}))
}

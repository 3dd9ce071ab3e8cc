// Package list реализует HTTP-обработчик истории списаний. Биллинг отдаёт
// историю целиком, страницы режутся на стороне портала.
package list

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

// Service операции биллинга для истории списаний.
type Service interface {
	Withdrawals(ctx context.Context, sessionID string) ([]models.Withdraw, error)
}

// Handler управляет HTTP-запросами истории списаний.
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
// @Summary История списаний
// @Description Возвращает страницу истории списаний по услугам пользователя.
// @Tags Withdraw
// @Produce json
// @Param page query int false "Номер страницы, с 1"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить списания"
// @Router /withdrawals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.withdraw.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	items, err := h.service.Withdrawals(r.Context(), sid)
	if err != nil {
		log.Error("failed to load withdrawals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load withdrawals"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	lo, hi, pages := paginate.Slice(len(items), page, paginate.DefaultPerPage)

	log.Info("withdrawals loaded", slog.Int("total", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": items[lo:hi],
		"total": len(items),
		"pages": pages,
	}))
}

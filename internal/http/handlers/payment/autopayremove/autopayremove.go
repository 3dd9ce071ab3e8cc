// Package autopayremove реализует HTTP-обработчик отключения автоплатежа.
// Операция разрушающая и требует подтверждения confirm=true; после удаления
// кэш платёжных систем сессии сбрасывается и список перечитывается заново.
package autopayremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
)

// Service бизнес-логика платежей.
type Service interface {
	DeleteAutopay(ctx context.Context, sid, name string) error
}

// Handler управляет HTTP-запросами на отключение автоплатежа.
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
// @Summary Отключение автоплатежа
// @Description Отключает автоплатёж платёжной системы. Требует confirm=true.
// @Tags Payment
// @Produce json
// @Param name path string true "Имя платёжной системы"
// @Param confirm query bool true "Подтверждение операции"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустое имя или нет подтверждения"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил отключение"
// @Router /pay/autopay/{name} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.autopayremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name := chi.URLParam(r, "name")
	if name == "" {
		log.Error("empty pay system name")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("pay system name is required"))
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		log.Error("confirmation missing", slog.String("pay_system", name))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("confirmation required"))
		return
	}

	sid := middlewarectx.SessionFromContext(r.Context())

	if err := h.service.DeleteAutopay(r.Context(), sid, name); err != nil {
		log.Error("failed to delete autopayment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete autopayment"))
		return
	}

	log.Info("autopayment deleted", slog.String("pay_system", name))
	render.JSON(w, r, response.OK())
}

// Package remove реализует HTTP-обработчик удаления услуги. Операция
// разрушающая и необратимая, поэтому требует явного подтверждения
// confirm=true.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
)

// Service бизнес-логика услуг пользователя.
type Service interface {
	Delete(ctx context.Context, sid string, userServiceID int) error
}

// Handler управляет HTTP-запросами на удаление услуги.
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
// @Summary Удаление услуги
// @Description Удаляет услугу пользователя безвозвратно. Требует confirm=true.
// @Tags UserService
// @Produce json
// @Param user_service_id path int true "Идентификатор услуги пользователя"
// @Param confirm query bool true "Подтверждение операции"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или нет подтверждения"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил удаление"
// @Router /services/{user_service_id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.userservice.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "user_service_id"))
	if err != nil || id <= 0 {
		log.Error("invalid user service id", slog.String("raw", chi.URLParam(r, "user_service_id")))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user service id"))
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		log.Error("confirmation missing", slog.Int("user_service_id", id))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("confirmation required"))
		return
	}

	sid := middlewarectx.SessionFromContext(r.Context())

	if err := h.service.Delete(r.Context(), sid, id); err != nil {
		log.Error("failed to delete service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete service"))
		return
	}

	log.Info("service deleted", slog.Int("user_service_id", id))
	render.JSON(w, r, response.OK())
}

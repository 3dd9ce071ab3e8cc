// Package list реализует HTTP-обработчик списка услуг пользователя,
// сгруппированного по категориям. Дочерние услуги вложены в родительские.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/services/userservices"
)

// Service бизнес-логика услуг пользователя.
type Service interface {
	List(ctx context.Context, sid string) ([]userservices.Group, error)
}

// Handler управляет HTTP-запросами списка услуг.
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
// @Summary Услуги пользователя
// @Description Возвращает услуги пользователя по категориям, с вложенными дочерними.
// @Tags UserService
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Не удалось загрузить услуги"
// @Router /services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.userservice.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := middlewarectx.SessionFromContext(r.Context())

	groups, err := h.service.List(r.Context(), sid)
	if err != nil {
		log.Error("failed to load user services", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load services"))
		return
	}

	log.Info("user services loaded", slog.Int("groups", len(groups)))
	render.JSON(w, r, response.OKWithData(groups))
}

// Package apply реализует HTTP-обработчик активации промокода. Текст ошибки
// биллинга («код не найден», «уже использован») показывается пользователю как
// есть.
package apply

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/http/response"
	"github.com/shmhost/client-portal/internal/lib/sl"
	"github.com/shmhost/client-portal/internal/shm"
)

// Request тело запроса на активацию промокода.
type Request struct {
	Promo string `json:"promo" validate:"required"`
}

// Service операции биллинга для промокодов.
type Service interface {
	ApplyPromo(ctx context.Context, sessionID, code string) error
}

// Handler управляет HTTP-запросами на активацию промокода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Активация промокода
// @Tags Promo
// @Accept json
// @Produce json
// @Param request body Request true "Промокод"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустой код или отказ биллинга с его текстом"
// @Failure 500 {object} response.ErrorResponse "Биллинг недоступен"
// @Router /promo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promo.apply"
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

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sid := middlewarectx.SessionFromContext(r.Context())

	if err := h.service.ApplyPromo(r.Context(), sid, req.Promo); err != nil {
		var apiErr *shm.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			log.Info("promo rejected", slog.String("reason", apiErr.Message))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(apiErr.Message))
			return
		}
		log.Error("failed to apply promo", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not apply promo code"))
		return
	}

	log.Info("promo applied")
	render.JSON(w, r, response.OK())
}

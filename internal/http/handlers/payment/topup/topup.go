// Package topup реализует HTTP-обработчик пополнения баланса: по имени
// платёжной системы и сумме строится ссылка на оплату.
package topup

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
	"github.com/shmhost/client-portal/internal/services/payments"
)

// Request тело запроса на пополнение баланса.
type Request struct {
	PaySystem string  `json:"pay_system" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// Service бизнес-логика платежей.
type Service interface {
	TopUp(ctx context.Context, sid, name string, amount float64) (string, error)
}

// Handler управляет HTTP-запросами на пополнение баланса.
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
// @Summary Пополнение баланса
// @Description Возвращает ссылку на оплату указанной суммы через выбранную платёжную систему.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body Request true "Платёжная система и сумма"
// @Success 200 {object} response.Response "Ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректная сумма или неизвестная платёжная система"
// @Failure 500 {object} response.ErrorResponse "Не удалось построить ссылку"
// @Router /pay/topup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.topup"
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

	url, err := h.service.TopUp(r.Context(), sid, req.PaySystem, req.Amount)
	if err != nil {
		if errors.Is(err, payments.ErrPaySystemNotFound) {
			log.Error("unknown pay system", slog.String("pay_system", req.PaySystem))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown pay system"))
			return
		}
		log.Error("failed to build payment url", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build payment url"))
		return
	}

	log.Info("payment url built",
		slog.String("pay_system", req.PaySystem),
		slog.Float64("amount", req.Amount),
	)
	render.JSON(w, r, response.OKWithData(map[string]string{"payment_url": url}))
}

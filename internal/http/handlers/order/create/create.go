// Package create реализует HTTP-обработчик заказа услуги.
//
// Поддерживаются два сценария: простой заказ (услуга создаётся в статусе
// NOT PAID и ждёт баланса) и «заказать и оплатить», когда сразу после заказа
// возвращается ссылка на оплату недостающей суммы.
package create

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
	"github.com/shmhost/client-portal/internal/services/ordering"
	"github.com/shmhost/client-portal/internal/services/payments"
)

// Request тело запроса на заказ услуги. PaySystem пустой — простой заказ,
// непустой — заказ с немедленной оплатой через указанную платёжную систему.
type Request struct {
	ServiceID int     `json:"service_id" validate:"required,gt=0"`
	PaySystem string  `json:"pay_system,omitempty"`
	Amount    float64 `json:"amount,omitempty" validate:"gte=0"`
}

// Service бизнес-логика заказа.
type Service interface {
	Order(ctx context.Context, sid string, serviceID int) (*ordering.OrderResult, error)
	OrderAndPay(ctx context.Context, sid string, serviceID int, paySystem string, amount float64) (*ordering.OrderResult, error)
}

// Handler управляет HTTP-запросами на заказ услуги.
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
// @Summary Заказ услуги
// @Description Заказывает услугу; при указании pay_system сразу возвращает ссылку на оплату.
// @Tags Order
// @Accept json
// @Produce json
// @Param request body Request true "Услуга и, опционально, платёжная система"
// @Success 200 {object} response.Response "Результат заказа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестная платёжная система"
// @Failure 500 {object} response.ErrorResponse "Биллинг отклонил заказ"
// @Router /order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"
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

	var (
		result *ordering.OrderResult
		err    error
	)
	if req.PaySystem == "" {
		result, err = h.service.Order(r.Context(), sid, req.ServiceID)
	} else {
		result, err = h.service.OrderAndPay(r.Context(), sid, req.ServiceID, req.PaySystem, req.Amount)
	}
	if err != nil {
		if errors.Is(err, payments.ErrPaySystemNotFound) {
			log.Error("unknown pay system", slog.String("pay_system", req.PaySystem))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown pay system"))
			return
		}
		log.Error("failed to order service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not order service"))
		return
	}

	log.Info("service ordered",
		slog.Int("service_id", req.ServiceID),
		slog.Bool("with_payment", result.PaymentURL != ""),
	)
	render.JSON(w, r, response.OKWithData(result))
}

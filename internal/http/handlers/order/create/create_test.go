package create

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
	"github.com/shmhost/client-portal/internal/services/ordering"
	"github.com/shmhost/client-portal/internal/services/payments"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Order(ctx context.Context, sid string, serviceID int) (*ordering.OrderResult, error) {
	args := m.Called(ctx, sid, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.OrderResult), args.Error(1)
}

func (m *MockService) OrderAndPay(ctx context.Context, sid string, serviceID int, paySystem string, amount float64) (*ordering.OrderResult, error) {
	args := m.Called(ctx, sid, serviceID, paySystem, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.OrderResult), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "простой заказ",
			requestBody: `{"service_id":11}`,
			setupMock: func(m *MockService) {
				m.On("Order", mock.Anything, "token-1", 11).
					Return(&ordering.OrderResult{ServiceID: 11}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"service_id":11}}`,
		},
		{
			name:        "заказ с оплатой",
			requestBody: `{"service_id":11,"pay_system":"yoomoney","amount":50}`,
			setupMock: func(m *MockService) {
				m.On("OrderAndPay", mock.Anything, "token-1", 11, "yoomoney", 50.0).
					Return(&ordering.OrderResult{ServiceID: 11, PaymentURL: "https://pay.example/50"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"service_id":11,"payment_url":"https://pay.example/50"}}`,
		},
		{
			name:        "неизвестная платёжная система",
			requestBody: `{"service_id":11,"pay_system":"ghost","amount":50}`,
			setupMock: func(m *MockService) {
				m.On("OrderAndPay", mock.Anything, "token-1", 11, "ghost", 50.0).
					Return(nil, payments.ErrPaySystemNotFound)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"unknown pay system"}`,
		},
		{
			name:           "нет идентификатора услуги",
			requestBody:    `{"pay_system":"yoomoney"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field ServiceID is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:        "биллинг отклонил заказ",
			requestBody: `{"service_id":11}`,
			setupMock: func(m *MockService) {
				m.On("Order", mock.Anything, "token-1", 11).
					Return(nil, errors.New("500"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not order service"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/order", bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")
			ctx := context.WithValue(req.Context(), middlewarectx.SessionID, "token-1")
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

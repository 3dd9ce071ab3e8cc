package topup

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
	"github.com/shmhost/client-portal/internal/services/payments"
)

// MockService реализует интерфейс topup.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) TopUp(ctx context.Context, sid, name string, amount float64) (string, error) {
	args := m.Called(ctx, sid, name, amount)
	return args.String(0), args.Error(1)
}

func TestTopUpHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное пополнение",
			requestBody: `{"pay_system":"yoomoney","amount":100.5}`,
			setupMock: func(m *MockService) {
				m.On("TopUp", mock.Anything, "token-1", "yoomoney", 100.5).
					Return("https://pay.example/100.5", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"payment_url":"https://pay.example/100.5"}}`,
		},
		{
			name:           "нулевая сумма",
			requestBody:    `{"pay_system":"yoomoney","amount":0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Amount is a required field"}`,
		},
		{
			name:           "отрицательная сумма",
			requestBody:    `{"pay_system":"yoomoney","amount":-5}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Amount must be greater than 0"}`,
		},
		{
			name:        "неизвестная платёжная система",
			requestBody: `{"pay_system":"ghost","amount":10}`,
			setupMock: func(m *MockService) {
				m.On("TopUp", mock.Anything, "token-1", "ghost", 10.0).
					Return("", payments.ErrPaySystemNotFound)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"unknown pay system"}`,
		},
		{
			name:        "биллинг недоступен",
			requestBody: `{"pay_system":"yoomoney","amount":10}`,
			setupMock: func(m *MockService) {
				m.On("TopUp", mock.Anything, "token-1", "yoomoney", 10.0).
					Return("", errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not build payment url"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/pay/topup", bytes.NewReader([]byte(tt.requestBody)))
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

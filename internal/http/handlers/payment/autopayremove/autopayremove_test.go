package autopayremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shmhost/client-portal/internal/http/middlewarectx"
)

// MockService реализует интерфейс autopayremove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) DeleteAutopay(ctx context.Context, sid, name string) error {
	args := m.Called(ctx, sid, name)
	return args.Error(0)
}

func TestAutopayRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		paySystem      string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное отключение",
			paySystem: "yoomoney",
			query:     "confirm=true",
			setupMock: func(m *MockService) {
				m.On("DeleteAutopay", mock.Anything, "token-1", "yoomoney").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "нет подтверждения",
			paySystem:      "yoomoney",
			query:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"confirmation required"}`,
		},
		{
			name:           "пустое имя",
			paySystem:      "",
			query:          "confirm=true",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"pay system name is required"}`,
		},
		{
			name:      "биллинг отклонил отключение",
			paySystem: "yoomoney",
			query:     "confirm=true",
			setupMock: func(m *MockService) {
				m.On("DeleteAutopay", mock.Anything, "token-1", "yoomoney").Return(errors.New("500"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not delete autopayment"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			url := "/api/v1/pay/autopay/" + tt.paySystem
			if tt.query != "" {
				url += "?" + tt.query
			}
			req := httptest.NewRequest(http.MethodDelete, url, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("name", tt.paySystem)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.SessionID, "token-1")
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

package stop

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

// MockService реализует интерфейс stop.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Stop(ctx context.Context, sid string, userServiceID int) error {
	args := m.Called(ctx, sid, userServiceID)
	return args.Error(0)
}

func TestStopHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		rawID          string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешная остановка",
			rawID: "42",
			query: "confirm=true",
			setupMock: func(m *MockService) {
				m.On("Stop", mock.Anything, "token-1", 42).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "нет подтверждения",
			rawID:          "42",
			query:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"confirmation required"}`,
		},
		{
			name:           "confirm не равен true",
			rawID:          "42",
			query:          "confirm=yes",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"confirmation required"}`,
		},
		{
			name:           "некорректный идентификатор",
			rawID:          "abc",
			query:          "confirm=true",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid user service id"}`,
		},
		{
			name:  "биллинг отклонил остановку",
			rawID: "42",
			query: "confirm=true",
			setupMock: func(m *MockService) {
				m.On("Stop", mock.Anything, "token-1", 42).Return(errors.New("500"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not stop service"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			url := "/api/v1/services/" + tt.rawID + "/stop"
			if tt.query != "" {
				url += "?" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, url, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("user_service_id", tt.rawID)
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

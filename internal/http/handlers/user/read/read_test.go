package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/starweaverbot/starweaver/internal/models"
	"github.com/starweaverbot/starweaver/internal/storage"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		urlParam       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "profile returned",
			urlParam: "42",
			setupMock: func(m *MockService) {
				user := &models.User{
					TelegramID:       42,
					Username:         "stargazer",
					FirstName:        "Luna",
					FreeReadingsLeft: 2,
				}
				m.On("GetUser", mock.Anything, int64(42)).Return(user, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"stargazer"`,
		},
		{
			name:           "malformed telegram_id",
			urlParam:       "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode telegram_id from url"}`,
		},
		{
			name:     "user not found",
			urlParam: "777",
			setupMock: func(m *MockService) {
				m.On("GetUser", mock.Anything, int64(777)).
					Return(nil, storage.ErrUserNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:     "storage error",
			urlParam: "42",
			setupMock: func(m *MockService) {
				m.On("GetUser", mock.Anything, int64(42)).
					Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/user/"+tt.urlParam, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("telegram_id", tt.urlParam)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

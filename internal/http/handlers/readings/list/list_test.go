package list

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
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListReadings(ctx context.Context, telegramID int64, limit int) ([]*models.Reading, error) {
	args := m.Called(ctx, telegramID, limit)
	if res := args.Get(0); res != nil {
		return res.([]*models.Reading), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		urlParam       string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "readings returned newest first",
			urlParam: "42",
			setupMock: func(m *MockService) {
				readings := []*models.Reading{
					{ID: "r2", TelegramID: 42, Question: "Will I find love?", Reading: "Love is near."},
					{ID: "r1", TelegramID: 42, Question: "Career advice?", Reading: "A new door opens."},
				}
				m.On("ListReadings", mock.Anything, int64(42), 0).Return(readings, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":2`,
		},
		{
			name:     "limit passed through from query",
			urlParam: "42",
			query:    "?limit=5",
			setupMock: func(m *MockService) {
				m.On("ListReadings", mock.Anything, int64(42), 5).
					Return([]*models.Reading{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":0`,
		},
		{
			name:           "malformed telegram_id",
			urlParam:       "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode telegram_id from url"}`,
		},
		{
			name:           "malformed limit",
			urlParam:       "42",
			query:          "?limit=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode limit from query"}`,
		},
		{
			name:     "storage error",
			urlParam: "42",
			setupMock: func(m *MockService) {
				m.On("ListReadings", mock.Anything, int64(42), 0).
					Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not list readings"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/readings/"+tt.urlParam+tt.query, nil)
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

package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/starweaverbot/starweaver/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	args := m.Called(ctx, clientName)
	if res := args.Get(0); res != nil {
		return res.(*models.StatusCheck), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "status check created",
			body: `{"client_name": "healthcheck"}`,
			setupMock: func(m *MockService) {
				check := &models.StatusCheck{ID: "s1", ClientName: "healthcheck"}
				m.On("CreateStatusCheck", mock.Anything, "healthcheck").Return(check, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"client_name":"healthcheck"`,
		},
		{
			name:           "malformed json",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing client_name",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ClientName is a required field`,
		},
		{
			name: "storage error",
			body: `{"client_name": "healthcheck"}`,
			setupMock: func(m *MockService) {
				m.On("CreateStatusCheck", mock.Anything, "healthcheck").
					Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create status check"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/status", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

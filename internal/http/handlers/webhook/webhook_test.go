package webhook

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

	"github.com/starweaverbot/starweaver/internal/telegram"
)

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) HandleEvent(ctx context.Context, ev telegram.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

const secret = "test-webhook-secret"

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	startUpdate := `{
		"update_id": 1001,
		"message": {
			"message_id": 1,
			"from": {"id": 42, "is_bot": false, "first_name": "Luna", "username": "stargazer"},
			"chat": {"id": 42, "type": "private"},
			"date": 1700000000,
			"text": "/start",
			"entities": [{"type": "bot_command", "offset": 0, "length": 6}]
		}
	}`

	tests := []struct {
		name           string
		secretHeader   string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "valid update processed",
			secretHeader: secret,
			body:         startUpdate,
			setupMock: func(m *MockService) {
				m.On("HandleEvent", mock.Anything, mock.MatchedBy(func(ev telegram.Event) bool {
					return ev.Kind == telegram.EventStart && ev.TelegramID == 42
				})).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ok":true`,
		},
		{
			name:           "missing secret token rejected",
			secretHeader:   "",
			body:           startUpdate,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret token rejected",
			secretHeader:   "wrong-secret",
			body:           startUpdate,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed body still answers 200",
			secretHeader:   secret,
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ok":false`,
		},
		{
			name:           "unrecognized update acknowledged without service call",
			secretHeader:   secret,
			body:           `{"update_id": 1002}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ok":true`,
		},
		{
			name:         "service error still answers 200",
			secretHeader: secret,
			body:         startUpdate,
			setupMock: func(m *MockService) {
				m.On("HandleEvent", mock.Anything, mock.Anything).
					Return(errors.New("db error")).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ok":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, secret)

			req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader(tt.body))
			if tt.secretHeader != "" {
				req.Header.Set("X-Telegram-Bot-Api-Secret-Token", tt.secretHeader)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}

			mockService.AssertExpectations(t)
		})
	}
}

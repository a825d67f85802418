package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/starweaverbot/starweaver/internal/models"
	"github.com/starweaverbot/starweaver/internal/storage"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type ReadingsMock struct{ mock.Mock }

func (m *ReadingsMock) ListReadings(ctx context.Context, telegramID int64, limit int) ([]*models.Reading, error) {
	args := m.Called(ctx, telegramID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reading), args.Error(1)
}

type StatusesMock struct{ mock.Mock }

func (m *StatusesMock) CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	args := m.Called(ctx, clientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusCheck), args.Error(1)
}
func (m *StatusesMock) ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StatusCheck), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newProfileService(users *UsersMock, readings *ReadingsMock, statuses *StatusesMock, cache *CacheMock) *ProfileService {
	return NewProfileService(users, readings, statuses, cache, newNoopLogger())
}

func TestProfileService_GetUser_CacheHit(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := newProfileService(users, new(ReadingsMock), new(StatusesMock), cache)

	cache.On("Get", "user:42", mock.Anything).Run(func(args mock.Arguments) {
		u := args.Get(1).(*models.User)
		u.TelegramID = 42
		u.FreeReadingsLeft = 2
	}).Return(true, nil).Once()

	user, err := svc.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.TelegramID)
	assert.Equal(t, 2, user.FreeReadingsLeft)

	users.AssertNotCalled(t, "GetUserByTelegramID", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestProfileService_GetUser_CacheMissReadsStorageAndCaches(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := newProfileService(users, new(ReadingsMock), new(StatusesMock), cache)

	stored := &models.User{TelegramID: 42, FreeReadingsLeft: 3}
	cache.On("Get", "user:42", mock.Anything).Return(false, nil).Once()
	users.On("GetUserByTelegramID", mock.Anything, int64(42)).Return(stored, nil).Once()
	cache.On("Set", "user:42", stored, time.Hour).Return(nil).Once()

	user, err := svc.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	users.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestProfileService_GetUser_CacheErrorsAreNotFatal(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := newProfileService(users, new(ReadingsMock), new(StatusesMock), cache)

	stored := &models.User{TelegramID: 42}
	cache.On("Get", "user:42", mock.Anything).Return(false, errors.New("redis down")).Once()
	users.On("GetUserByTelegramID", mock.Anything, int64(42)).Return(stored, nil).Once()
	cache.On("Set", "user:42", stored, time.Hour).Return(errors.New("redis down")).Once()

	user, err := svc.GetUser(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, stored, user)
}

func TestProfileService_GetUser_NotFoundPropagated(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := newProfileService(users, new(ReadingsMock), new(StatusesMock), cache)

	cache.On("Get", "user:42", mock.Anything).Return(false, nil).Once()
	users.On("GetUserByTelegramID", mock.Anything, int64(42)).
		Return(nil, storage.ErrUserNotFound).Once()

	_, err := svc.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileService_ListReadings_LimitClamped(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "zero limit becomes default", limit: 0, wantLimit: 100},
		{name: "negative limit becomes default", limit: -5, wantLimit: 100},
		{name: "oversized limit becomes default", limit: 500, wantLimit: 100},
		{name: "limit in range passed through", limit: 10, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings := new(ReadingsMock)
			svc := newProfileService(new(UsersMock), readings, new(StatusesMock), new(CacheMock))

			want := []*models.Reading{{ID: "r1", TelegramID: 42}}
			readings.On("ListReadings", mock.Anything, int64(42), tt.wantLimit).
				Return(want, nil).Once()

			got, err := svc.ListReadings(context.Background(), 42, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			readings.AssertExpectations(t)
		})
	}
}

func TestProfileService_StatusChecks(t *testing.T) {
	statuses := new(StatusesMock)
	svc := newProfileService(new(UsersMock), new(ReadingsMock), statuses, new(CacheMock))

	created := &models.StatusCheck{ID: "s1", ClientName: "healthcheck"}
	statuses.On("CreateStatusCheck", mock.Anything, "healthcheck").Return(created, nil).Once()
	statuses.On("ListStatusChecks", mock.Anything, 100).
		Return([]*models.StatusCheck{created}, nil).Once()

	check, err := svc.CreateStatusCheck(context.Background(), "healthcheck")
	require.NoError(t, err)
	assert.Equal(t, created, check)

	list, err := svc.ListStatusChecks(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "healthcheck", list[0].ClientName)

	statuses.AssertExpectations(t)
}

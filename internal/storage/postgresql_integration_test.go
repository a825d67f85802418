package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starweaverbot/starweaver/internal/models"
)

func TestStorage_CreateUser_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	verify := NewTestVerification(storage)
	ctx := context.Background()

	user := models.User{
		TelegramID:       100500,
		Username:         "stargazer",
		FirstName:        "Luna",
		FreeReadingsLeft: 3,
	}

	require.NoError(t, storage.CreateUser(ctx, user))
	// Повторная вставка того же telegram_id не ошибка и не дубликат
	require.NoError(t, storage.CreateUser(ctx, user))
	verify.VerifyUserExists(t, 100500)

	got, err := storage.GetUserByTelegramID(ctx, 100500)
	require.NoError(t, err)
	assert.Equal(t, "stargazer", got.Username)
	assert.Equal(t, "Luna", got.FirstName)
	assert.Equal(t, 3, got.FreeReadingsLeft)
	assert.False(t, got.SubscriptionActive)
	assert.Nil(t, got.SubscriptionEnd)
}

func TestStorage_GetUserByTelegramID_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUserByTelegramID(context.Background(), 999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ConsumeFreeReading(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, 200, "luna", "Luna", 2)

	consumed, err := storage.ConsumeFreeReading(ctx, 200)
	require.NoError(t, err)
	assert.True(t, consumed)
	verify.VerifyFreeReadingsLeft(t, 200, 1)

	consumed, err = storage.ConsumeFreeReading(ctx, 200)
	require.NoError(t, err)
	assert.True(t, consumed)
	verify.VerifyFreeReadingsLeft(t, 200, 0)

	// Счётчик на нуле: запрос не затрагивает строк и не опускает значение ниже нуля
	consumed, err = storage.ConsumeFreeReading(ctx, 200)
	require.NoError(t, err)
	assert.False(t, consumed)
	verify.VerifyFreeReadingsLeft(t, 200, 0)
}

func TestStorage_ActivateSubscription_OverwritesWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	oldEnd := time.Now().UTC().AddDate(0, 0, 5).Truncate(time.Second)
	factory.CreateUserWithSubscription(t, 300, "vega", "Vega", 0, oldEnd)

	newEnd := time.Now().UTC().AddDate(0, 0, 30).Truncate(time.Second)
	require.NoError(t, storage.ActivateSubscription(ctx, 300, newEnd))

	got, err := storage.GetUserByTelegramID(ctx, 300)
	require.NoError(t, err)
	require.NotNil(t, got.SubscriptionEnd)
	assert.True(t, got.SubscriptionActive)
	assert.WithinDuration(t, newEnd, *got.SubscriptionEnd, time.Second)
}

func TestStorage_UpdateBirthData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateUser(t, 400, "mira", "Mira", 3)

	data := models.BirthData{
		BirthDate:  "1990-05-15",
		BirthTime:  "14:30",
		BirthPlace: "New York, USA",
	}
	require.NoError(t, storage.UpdateBirthData(ctx, 400, data))

	got, err := storage.GetUserByTelegramID(ctx, 400)
	require.NoError(t, err)
	assert.Equal(t, "1990-05-15", got.BirthDate)
	assert.Equal(t, "14:30", got.BirthTime)
	assert.Equal(t, "New York, USA", got.BirthPlace)
	assert.True(t, got.HasBirthData())
}

func TestStorage_CreateAndListReadings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	factory.CreateUser(t, 500, "nova", "Nova", 3)

	first := models.Reading{
		TelegramID: 500,
		Question:   "What does my future hold?",
		Reading:    "The stars align in your favor.",
	}
	id1, err := storage.CreateReading(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	second := models.Reading{
		TelegramID: 500,
		Question:   "General reading requested via bot",
		Reading:    "A season of growth begins.",
		BirthData: &models.BirthData{
			BirthDate:  "1990-05-15",
			BirthTime:  "14:30",
			BirthPlace: "New York, USA",
		},
	}
	id2, err := storage.CreateReading(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	verify.VerifyReadingCount(t, 500, 2)

	list, err := storage.ListReadings(ctx, 500, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Новые расклады первыми
	assert.Equal(t, id2, list[0].ID)
	assert.Equal(t, id1, list[1].ID)
	require.NotNil(t, list[0].BirthData)
	assert.Equal(t, "New York, USA", list[0].BirthData.BirthPlace)
	assert.Nil(t, list[1].BirthData)

	limited, err := storage.ListReadings(ctx, 500, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, id2, limited[0].ID)
}

func TestStorage_FindSubscriptionsExpiringTomorrow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	nextWeek := time.Now().UTC().AddDate(0, 0, 7)

	factory.CreateUserWithSubscription(t, 600, "lyra", "Lyra", 0, tomorrow)
	factory.CreateUserWithSubscription(t, 601, "iris", "Iris", 0, nextWeek)
	factory.CreateUser(t, 602, "free", "Free", 3)

	result, err := storage.FindSubscriptionsExpiringTomorrow(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(600), result[0].TelegramID)
	assert.Equal(t, "Lyra", result[0].FirstName)
}

func TestStorage_StatusChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	created, err := storage.CreateStatusCheck(ctx, "web-client")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "web-client", created.ClientName)
	assert.WithinDuration(t, time.Now(), created.Timestamp, time.Minute)

	list, err := storage.ListStatusChecks(ctx, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

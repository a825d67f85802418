// Package services реализует чтение профилей и архива раскладов для HTTP API.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
)

const (
	profileCacheTTL = time.Hour

	// maxReadingsLimit ограничивает выдачу архива одним запросом.
	maxReadingsLimit = 100
)

// UserRepository определяет чтение пользователей из хранилища.
type UserRepository interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

// ReadingRepository определяет чтение архива раскладов.
type ReadingRepository interface {
	ListReadings(ctx context.Context, telegramID int64, limit int) ([]*models.Reading, error)
}

// StatusRepository определяет работу с проверками статуса.
type StatusRepository interface {
	CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error)
	ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error)
}

// Cache описывает кеширование профилей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ProfileService отдаёт профили через кеш и архив раскладов напрямую из базы.
type ProfileService struct {
	users    UserRepository
	readings ReadingRepository
	statuses StatusRepository
	cache    Cache
	log      *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(users UserRepository, readings ReadingRepository,
	statuses StatusRepository, cache Cache, log *slog.Logger) *ProfileService {
	return &ProfileService{
		users:    users,
		readings: readings,
		statuses: statuses,
		cache:    cache,
		log:      log,
	}
}

// GetUser возвращает профиль пользователя, сначала проверяя кеш.
// Ошибки кеша не фатальны: профиль читается из базы, а запись в кеш
// логируется и пропускается.
func (s *ProfileService) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	const op = "services.profile.GetUser"
	log := s.log.With(slog.String("op", op), slog.Int64("telegram_id", telegramID))

	cacheKey := fmt.Sprintf("user:%d", telegramID)

	var cached models.User
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Warn("failed to read profile from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, user, profileCacheTTL); err != nil {
		log.Warn("failed to cache profile", sl.Err(err))
	}

	return user, nil
}

// ListReadings возвращает расклады пользователя от новых к старым.
// Лимит вне диапазона (1..100) приводится к 100.
func (s *ProfileService) ListReadings(ctx context.Context, telegramID int64, limit int) ([]*models.Reading, error) {
	const op = "services.profile.ListReadings"

	if limit <= 0 || limit > maxReadingsLimit {
		limit = maxReadingsLimit
	}

	readings, err := s.readings.ListReadings(ctx, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return readings, nil
}

// CreateStatusCheck регистрирует проверку статуса сервиса.
func (s *ProfileService) CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error) {
	const op = "services.profile.CreateStatusCheck"

	check, err := s.statuses.CreateStatusCheck(ctx, clientName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return check, nil
}

// ListStatusChecks возвращает проверки статуса от новых к старым.
func (s *ProfileService) ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	const op = "services.profile.ListStatusChecks"

	if limit <= 0 || limit > maxReadingsLimit {
		limit = maxReadingsLimit
	}

	checks, err := s.statuses.ListStatusChecks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return checks, nil
}

// Package services содержит бизнес-логику учёта прав на расклады:
// бесплатный лимит и платная подписка с ленивым истечением.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starweaverbot/starweaver/internal/models"
)

// UserRepository определяет методы хранилища, необходимые для учёта прав.
type UserRepository interface {
	// ConsumeFreeReading атомарно уменьшает счётчик бесплатных раскладов,
	// возвращает false при нулевом остатке.
	ConsumeFreeReading(ctx context.Context, telegramID int64) (bool, error)
	// ActivateSubscription включает подписку до указанной даты.
	ActivateSubscription(ctx context.Context, telegramID int64, end time.Time) error
}

// EntitlementService реализует правила доступа к раскладам.
// Флаг subscription_active в базе не сбрасывается по таймеру:
// истечение определяется сравнением subscription_end с текущим моментом.
type EntitlementService struct {
	repo             UserRepository
	log              *slog.Logger
	subscriptionDays int
}

// NewEntitlementService создает новый экземпляр EntitlementService.
func NewEntitlementService(repo UserRepository, log *slog.Logger, subscriptionDays int) *EntitlementService {
	return &EntitlementService{
		repo:             repo,
		log:              log,
		subscriptionDays: subscriptionDays,
	}
}

// HasActiveSubscription сообщает, действует ли подписка пользователя на момент now.
func (s *EntitlementService) HasActiveSubscription(user *models.User, now time.Time) bool {
	return user.SubscriptionActive &&
		user.SubscriptionEnd != nil &&
		user.SubscriptionEnd.After(now)
}

// CanConsume сообщает, доступен ли пользователю расклад на момент now.
// Истёкшая подписка не даёт доступа, даже если флаг ещё не сброшен.
func (s *EntitlementService) CanConsume(user *models.User, now time.Time) bool {
	if s.HasActiveSubscription(user, now) {
		return true
	}
	return user.FreeReadingsLeft > 0
}

// Consume списывает единицу доступа. При действующей подписке списания нет.
// При нулевом остатке бесплатных раскладов вызов безвреден.
func (s *EntitlementService) Consume(ctx context.Context, user *models.User, now time.Time) error {
	if s.HasActiveSubscription(user, now) {
		return nil
	}

	consumed, err := s.repo.ConsumeFreeReading(ctx, user.TelegramID)
	if err != nil {
		return fmt.Errorf("consume free reading: %w", err)
	}
	if !consumed {
		s.log.Warn("consume called with no free readings left",
			slog.Int64("telegram_id", user.TelegramID))
	}
	return nil
}

// ActivateSubscription включает подписку на настроенное число дней от now,
// перезаписывая любое предыдущее окно. Повторная покупка не суммируется.
func (s *EntitlementService) ActivateSubscription(ctx context.Context, telegramID int64, now time.Time) (time.Time, error) {
	end := now.AddDate(0, 0, s.subscriptionDays)
	if err := s.repo.ActivateSubscription(ctx, telegramID, end); err != nil {
		return time.Time{}, fmt.Errorf("activate subscription: %w", err)
	}
	s.log.Info("subscription activated",
		slog.Int64("telegram_id", telegramID),
		slog.Time("subscription_end", end))
	return end, nil
}

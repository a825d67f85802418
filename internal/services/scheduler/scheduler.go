// Package services находит подписки, истекающие завтра, и публикует
// напоминания в очередь уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/starweaverbot/starweaver/internal/lib/rabbitmq"
	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
)

// UserRepository определяет поиск подписок с окончанием на завтра.
type UserRepository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ReminderInfo, error)
}

type SchedulerService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringSubscriptionsDueTomorrow запускает периодический поиск и
// публикацию напоминаний. Первый проход выполняется сразу, дальше каждые
// 12 часов до отмены контекста.
func (s *SchedulerService) FindExpiringSubscriptionsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringSubscriptionsDueTomorrow(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindExpiringSubscriptionsDueTomorrow(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindExpiringSubscriptionsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find subscriptions expiring tomorrow")
	reminders, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, "notifications", "expiring", reminder)
		if err != nil {
			s.log.Error("failed to publish reminder",
				slog.Int64("telegram_id", reminder.TelegramID), sl.Err(err))
		}
	}
}

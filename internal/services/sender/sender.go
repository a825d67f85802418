// Package services доставляет напоминания об истекающих подписках в Telegram.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
	"github.com/starweaverbot/starweaver/internal/telegram"
)

// Transport описывает отправку сообщений в чат Telegram.
type Transport interface {
	SendMessage(chatID int64, text string, keyboard telegram.KeyboardKind) error
}

type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendExpiryReminder разбирает сообщение из очереди и отправляет пользователю
// напоминание о завтрашнем окончании подписки. Ошибка возвращается вызывающему,
// чтобы сообщение было возвращено в очередь.
func (s *SenderService) SendExpiryReminder(body []byte) error {
	const op = "services.sender.SendExpiryReminder"

	var reminder models.ReminderInfo
	if err := json.Unmarshal(body, &reminder); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}

	name := reminder.FirstName
	if name == "" {
		name = "beautiful soul"
	}

	text := fmt.Sprintf("🌙 Hi %s! Your StarWeaver subscription ends tomorrow (%s).\n\n"+
		"Renew now to keep your unlimited cosmic guidance flowing! ✨",
		name, reminder.SubscriptionEnd.Format("2006-01-02"))

	if err := s.transport.SendMessage(reminder.TelegramID, text, telegram.KeyboardBuy); err != nil {
		s.log.Error("failed to send expiry reminder",
			slog.Int64("telegram_id", reminder.TelegramID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("expiry reminder sent", slog.Int64("telegram_id", reminder.TelegramID))
	return nil
}

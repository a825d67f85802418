// Package services содержит бизнес-логику обработки событий Telegram-бота:
// идентификацию пользователя, диспетчеризацию по типу события, проверку прав,
// генерацию расклада и отправку ответа.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
	"github.com/starweaverbot/starweaver/internal/services/intent"
	"github.com/starweaverbot/starweaver/internal/storage"
	"github.com/starweaverbot/starweaver/internal/telegram"
)

const (
	// FallbackReading фиксированный текст, который получает пользователь
	// при любой ошибке генерации. Никогда не меняется и тоже архивируется.
	FallbackReading = "I'm having trouble connecting to the cosmic energies right now. Please try again in a moment. ✨"

	// DefaultQuestion синтетический вопрос, сохраняемый для раскладов,
	// запрошенных кнопкой без текста.
	DefaultQuestion = "General reading requested via bot"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser добавляет нового пользователя, повторная вставка игнорируется.
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByTelegramID возвращает пользователя по его telegram_id.
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	// UpdateBirthData перезаписывает данные рождения пользователя.
	UpdateBirthData(ctx context.Context, telegramID int64, data models.BirthData) error
}

// ReadingRepository определяет методы для сохранения раскладов.
type ReadingRepository interface {
	// CreateReading сохраняет расклад и возвращает его ID.
	CreateReading(ctx context.Context, reading models.Reading) (string, error)
}

// Entitlement описывает правила доступа к раскладам.
type Entitlement interface {
	// HasActiveSubscription сообщает, действует ли подписка на момент now.
	HasActiveSubscription(user *models.User, now time.Time) bool
	// CanConsume сообщает, доступен ли пользователю расклад.
	CanConsume(user *models.User, now time.Time) bool
	// Consume списывает единицу доступа.
	Consume(ctx context.Context, user *models.User, now time.Time) error
	// ActivateSubscription включает подписку от момента now.
	ActivateSubscription(ctx context.Context, telegramID int64, now time.Time) (time.Time, error)
}

// Generator описывает генерацию текста расклада.
type Generator interface {
	Generate(ctx context.Context, user *models.User, question string) (string, error)
}

// Transport описывает отправку ответов в чат Telegram.
type Transport interface {
	SendMessage(chatID int64, text string, keyboard telegram.KeyboardKind) error
	SendInvoice(chatID int64) error
	AnswerPreCheckout(preCheckoutID string) error
}

// Cache описывает инвалидацию кешированных профилей.
type Cache interface {
	Invalidate(key string) error
}

// BotService реализует обработку событий бота. Каждое событие обрабатывается
// за один проход, без многошагового диалогового состояния.
type BotService struct {
	users        UserRepository
	readings     ReadingRepository
	entitlement  Entitlement
	generator    Generator
	transport    Transport
	cache        Cache
	log          *slog.Logger
	freeReadings int
	now          func() time.Time
}

// NewBotService создает новый экземпляр BotService.
func NewBotService(users UserRepository, readings ReadingRepository, entitlement Entitlement,
	generator Generator, transport Transport, cache Cache, log *slog.Logger, freeReadings int) *BotService {
	return &BotService{
		users:        users,
		readings:     readings,
		entitlement:  entitlement,
		generator:    generator,
		transport:    transport,
		cache:        cache,
		log:          log,
		freeReadings: freeReadings,
		now:          time.Now,
	}
}

// HandleEvent обрабатывает одно декодированное событие Telegram.
// Ошибки доставки ответов логируются и не откатывают уже сохранённые данные.
func (s *BotService) HandleEvent(ctx context.Context, ev telegram.Event) error {
	const op = "services.bot.HandleEvent"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("telegram_id", ev.TelegramID),
	)

	// Pre-checkout не требует профиля и должен быть подтверждён немедленно
	if ev.Kind == telegram.EventPreCheckout {
		if err := s.transport.AnswerPreCheckout(ev.PreCheckoutID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	user, err := s.identify(ctx, ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch ev.Kind {
	case telegram.EventStart:
		return s.handleStart(user, ev.ChatID, log)
	case telegram.EventCallback:
		return s.handleCallback(ctx, user, ev, log)
	case telegram.EventPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, user, ev.ChatID, log)
	case telegram.EventText:
		return s.handleText(ctx, user, ev, log)
	}

	log.Warn("unknown event kind ignored", slog.Int("kind", int(ev.Kind)))
	return nil
}

// identify возвращает профиль пользователя, создавая его при первом контакте.
// Создание идемпотентно: при гонке вставка игнорируется и профиль перечитывается.
func (s *BotService) identify(ctx context.Context, ev telegram.Event) (*models.User, error) {
	user, err := s.users.GetUserByTelegramID(ctx, ev.TelegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	newUser := models.User{
		TelegramID:       ev.TelegramID,
		Username:         ev.Username,
		FirstName:        ev.FirstName,
		LastName:         ev.LastName,
		FreeReadingsLeft: s.freeReadings,
	}
	if err := s.users.CreateUser(ctx, newUser); err != nil {
		return nil, err
	}
	s.invalidateProfile(ev.TelegramID)

	return s.users.GetUserByTelegramID(ctx, ev.TelegramID)
}

func (s *BotService) handleStart(user *models.User, chatID int64, log *slog.Logger) error {
	name := user.FirstName
	if name == "" {
		name = "beautiful soul"
	}

	welcome := fmt.Sprintf(`🌟 Welcome to StarWeaver, %s!

I'm your personal AI astrologer, here to provide you with cosmic guidance and insights.

✨ What I can do for you:
• Personalized astrology readings
• Daily cosmic guidance
• Answer your questions about love, career, and life
• Connect you with the wisdom of the stars

To get started, you can:
🎂 Set your birth data for personalized readings
✨ Ask me any question for general guidance
🌟 Open the web app for full features

%s

What would you like to explore first?`, name, s.entitlementSummary(user))

	if err := s.transport.SendMessage(chatID, welcome, telegram.KeyboardMain); err != nil {
		log.Error("failed to send welcome message", sl.Err(err))
	}
	return nil
}

func (s *BotService) handleCallback(ctx context.Context, user *models.User, ev telegram.Event, log *slog.Logger) error {
	switch ev.Action {
	case telegram.ActionStatus:
		return s.handleStatus(user, ev.ChatID, log)
	case telegram.ActionBuySubscription:
		if err := s.transport.SendInvoice(ev.ChatID); err != nil {
			log.Error("failed to send invoice", sl.Err(err))
		}
		return nil
	case telegram.ActionSetBirthData:
		instructions := "🎂 *Set Your Birth Data*\n\n" +
			"To give you the most accurate and personalized readings, I need your birth information.\n\n" +
			"Please send me your details in this format:\n" +
			"`YYYY-MM-DD HH:MM City, Country`\n\n" +
			"Example:\n" +
			"`1990-05-15 14:30 New York, USA`\n\n" +
			"This will help me calculate your natal chart and provide deeply personalized cosmic insights! ✨"
		if err := s.transport.SendMessage(ev.ChatID, instructions, telegram.KeyboardNone); err != nil {
			log.Error("failed to send birth data instructions", sl.Err(err))
		}
		return nil
	case telegram.ActionGetReading:
		return s.deliverReading(ctx, user, ev.ChatID, "", log)
	}

	log.Warn("unknown callback action ignored", slog.String("action", string(ev.Action)))
	return nil
}

func (s *BotService) handleStatus(user *models.User, chatID int64, log *slog.Logger) error {
	now := s.now()
	var text string
	keyboard := telegram.KeyboardNone
	if s.entitlement.HasActiveSubscription(user, now) {
		text = fmt.Sprintf("✨ Your subscription is active until %s. Unlimited readings await you! 🌟",
			user.SubscriptionEnd.Format("2006-01-02"))
	} else {
		text = fmt.Sprintf("🌙 You have %d free readings left.\n\nSubscribe for 30 days of unlimited cosmic guidance! ✨",
			user.FreeReadingsLeft)
		keyboard = telegram.KeyboardBuy
	}
	if err := s.transport.SendMessage(chatID, text, keyboard); err != nil {
		log.Error("failed to send status message", sl.Err(err))
	}
	return nil
}

func (s *BotService) handlePaymentSucceeded(ctx context.Context, user *models.User, chatID int64, log *slog.Logger) error {
	end, err := s.entitlement.ActivateSubscription(ctx, user.TelegramID, s.now())
	if err != nil {
		return err
	}
	s.invalidateProfile(user.TelegramID)

	confirmation := fmt.Sprintf("🌟 Payment received! Your subscription is active until %s.\n\nEnjoy unlimited readings! ✨",
		end.Format("2006-01-02"))
	if err := s.transport.SendMessage(chatID, confirmation, telegram.KeyboardReading); err != nil {
		log.Error("failed to send payment confirmation", sl.Err(err))
	}
	return nil
}

func (s *BotService) handleText(ctx context.Context, user *models.User, ev telegram.Event, log *slog.Logger) error {
	// Классификация идёт до любых проверок прав: сохранение данных
	// рождения не тратит расклады
	res := intent.Classify(ev.Text)
	if res.IsBirthData() {
		return s.saveBirthData(ctx, user, ev.ChatID, *res.BirthData, log)
	}
	return s.deliverReading(ctx, user, ev.ChatID, res.Question, log)
}

func (s *BotService) saveBirthData(ctx context.Context, user *models.User, chatID int64, data models.BirthData, log *slog.Logger) error {
	if err := s.users.UpdateBirthData(ctx, user.TelegramID, data); err != nil {
		return err
	}
	s.invalidateProfile(user.TelegramID)
	log.Info("birth data saved")

	ack := fmt.Sprintf("🎂 Perfect! I've saved your birth data:\n"+
		"📅 Date: %s\n"+
		"⏰ Time: %s\n"+
		"📍 Place: %s\n\n"+
		"Now I can give you deeply personalized readings! ✨",
		data.BirthDate, data.BirthTime, data.BirthPlace)
	if err := s.transport.SendMessage(chatID, ack, telegram.KeyboardReading); err != nil {
		log.Error("failed to send birth data confirmation", sl.Err(err))
	}
	return nil
}

// deliverReading проводит запрос через проверку прав, генерацию, архивирование,
// списание и отправку ответа. Пустой question означает общий расклад по кнопке.
func (s *BotService) deliverReading(ctx context.Context, user *models.User, chatID int64, question string, log *slog.Logger) error {
	now := s.now()
	if !s.entitlement.CanConsume(user, now) {
		denial := "🌙 You've used all your free readings.\n\nSubscribe for 30 days of unlimited cosmic guidance! ✨"
		if err := s.transport.SendMessage(chatID, denial, telegram.KeyboardBuy); err != nil {
			log.Error("failed to send denial message", sl.Err(err))
		}
		return nil
	}

	reading, err := s.generator.Generate(ctx, user, question)
	if err != nil {
		// Ошибка генерации не доходит до пользователя: он получает
		// фиксированное извинение, и оно тоже попадает в архив
		log.Error("failed to generate reading", sl.Err(err))
		reading = FallbackReading
	}

	storedQuestion := question
	header := "✨ *Your Personalized Reading* 🌟"
	if storedQuestion == "" {
		storedQuestion = DefaultQuestion
		header = "🌟 *Your StarWeaver Reading* ✨"
	}

	record := models.Reading{
		TelegramID: user.TelegramID,
		Question:   storedQuestion,
		Reading:    reading,
	}
	if user.HasBirthData() {
		record.BirthData = &models.BirthData{
			BirthDate:  user.BirthDate,
			BirthTime:  user.BirthTime,
			BirthPlace: user.BirthPlace,
		}
	}
	if _, err := s.readings.CreateReading(ctx, record); err != nil {
		return err
	}

	// Списание строго после успешного сохранения расклада
	if err := s.entitlement.Consume(ctx, user, now); err != nil {
		return err
	}
	s.invalidateProfile(user.TelegramID)

	text := fmt.Sprintf("%s\n\n%s", header, reading)
	if err := s.transport.SendMessage(chatID, text, telegram.KeyboardReading); err != nil {
		log.Error("failed to send reading", sl.Err(err))
	}
	return nil
}

func (s *BotService) entitlementSummary(user *models.User) string {
	if s.entitlement.HasActiveSubscription(user, s.now()) {
		return fmt.Sprintf("✨ Your subscription is active until %s.",
			user.SubscriptionEnd.Format("2006-01-02"))
	}
	return fmt.Sprintf("🌙 You have %d free readings left.", user.FreeReadingsLeft)
}

func (s *BotService) invalidateProfile(telegramID int64) {
	cacheKey := fmt.Sprintf("user:%d", telegramID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate profile cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

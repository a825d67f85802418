package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DecodeUpdate преобразует обновление Telegram в событие.
// Возвращает false для обновлений, которые бот не обрабатывает
// (редактирование сообщений, посты в каналах и прочее).
func DecodeUpdate(update tgbotapi.Update) (Event, bool) {
	if update.PreCheckoutQuery != nil {
		return Event{
			Kind:          EventPreCheckout,
			TelegramID:    update.PreCheckoutQuery.From.ID,
			ChatID:        update.PreCheckoutQuery.From.ID,
			Username:      update.PreCheckoutQuery.From.UserName,
			FirstName:     update.PreCheckoutQuery.From.FirstName,
			LastName:      update.PreCheckoutQuery.From.LastName,
			PreCheckoutID: update.PreCheckoutQuery.ID,
		}, true
	}

	if update.CallbackQuery != nil {
		ev := Event{
			Kind:       EventCallback,
			TelegramID: update.CallbackQuery.From.ID,
			ChatID:     update.CallbackQuery.From.ID,
			Username:   update.CallbackQuery.From.UserName,
			FirstName:  update.CallbackQuery.From.FirstName,
			LastName:   update.CallbackQuery.From.LastName,
			Action:     CallbackAction(update.CallbackQuery.Data),
		}
		if update.CallbackQuery.Message != nil {
			ev.ChatID = update.CallbackQuery.Message.Chat.ID
		}
		switch ev.Action {
		case ActionGetReading, ActionSetBirthData, ActionBuySubscription, ActionStatus:
			return ev, true
		}
		return Event{}, false
	}

	if update.Message != nil && update.Message.From != nil {
		ev := Event{
			TelegramID: update.Message.From.ID,
			ChatID:     update.Message.Chat.ID,
			Username:   update.Message.From.UserName,
			FirstName:  update.Message.From.FirstName,
			LastName:   update.Message.From.LastName,
		}

		if update.Message.SuccessfulPayment != nil {
			ev.Kind = EventPaymentSucceeded
			return ev, true
		}

		if update.Message.IsCommand() {
			switch update.Message.Command() {
			case "start":
				ev.Kind = EventStart
				return ev, true
			case "status":
				ev.Kind = EventCallback
				ev.Action = ActionStatus
				return ev, true
			}
			// Неизвестные команды трактуются как обычный текст
		}

		ev.Kind = EventText
		ev.Text = update.Message.Text
		return ev, true
	}

	return Event{}, false
}

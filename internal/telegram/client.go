package telegram

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/starweaverbot/starweaver/internal/config"
)

// Client обёртка над Telegram Bot API для отправки ответов пользователям.
type Client struct {
	api *tgbotapi.BotAPI
	log *slog.Logger
	cfg config.Telegram
}

// New создаёт клиента и проверяет токен запросом getMe.
func New(cfg config.Telegram, log *slog.Logger) (*Client, error) {
	const op = "telegram.New"
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Client{
		api: api,
		log: log,
		cfg: cfg,
	}, nil
}

// SetWebhook регистрирует вебхук с секретным токеном.
// Секрет проверяется потом на каждом входящем запросе.
func (c *Client) SetWebhook() error {
	const op = "telegram.SetWebhook"
	params := tgbotapi.Params{
		"url":          c.cfg.WebhookURL,
		"secret_token": c.cfg.WebhookSecret,
	}
	if _, err := c.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendMessage отправляет текстовое сообщение с выбранной inline-клавиатурой.
func (c *Client) SendMessage(chatID int64, text string, keyboard KeyboardKind) error {
	const op = "telegram.SendMessage"
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb, ok := c.keyboard(keyboard); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendInvoice отправляет счёт на оплату подписки через Telegram Payments.
func (c *Client) SendInvoice(chatID int64) error {
	const op = "telegram.SendInvoice"
	invoice := tgbotapi.NewInvoice(
		chatID,
		"StarWeaver Subscription",
		"30 days of unlimited astrology readings ✨",
		"starweaver-subscription",
		c.cfg.ProviderToken,
		"",
		"RUB",
		[]tgbotapi.LabeledPrice{
			{Label: "30 days", Amount: c.cfg.SubscriptionPriceRUB * 100},
		},
	)
	if _, err := c.api.Send(invoice); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AnswerPreCheckout подтверждает pre-checkout запрос.
// Telegram требует ответ в течение 10 секунд, иначе оплата отменяется.
func (c *Client) AnswerPreCheckout(preCheckoutID string) error {
	const op = "telegram.AnswerPreCheckout"
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: preCheckoutID,
		OK:                 true,
	}
	if _, err := c.api.Request(answer); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) keyboard(kind KeyboardKind) (tgbotapi.InlineKeyboardMarkup, bool) {
	webApp := tgbotapi.InlineKeyboardButton{
		Text:   "🌟 Open StarWeaver App",
		WebApp: &tgbotapi.WebAppInfo{URL: c.cfg.WebAppURL},
	}

	switch kind {
	case KeyboardMain:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(webApp),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✨ Get Reading", string(ActionGetReading)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🎂 Set Birth Data", string(ActionSetBirthData)),
			),
		), true
	case KeyboardReading:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(webApp),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✨ Another Reading", string(ActionGetReading)),
			),
		), true
	case KeyboardBuy:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🌙 Buy Subscription", string(ActionBuySubscription)),
			),
		), true
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}

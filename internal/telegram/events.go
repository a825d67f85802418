// Package telegram реализует границу с Telegram Bot API: декодирование
// входящих обновлений в события и отправку сообщений, счетов и ответов
// на pre-checkout запросы.
package telegram

// EventKind тип входящего события после декодирования обновления.
type EventKind int

const (
	// EventStart команда /start.
	EventStart EventKind = iota
	// EventCallback нажатие inline-кнопки.
	EventCallback
	// EventText произвольное текстовое сообщение.
	EventText
	// EventPreCheckout запрос подтверждения перед оплатой.
	EventPreCheckout
	// EventPaymentSucceeded успешная оплата подписки.
	EventPaymentSucceeded
)

// CallbackAction действие, закодированное в callback-данных inline-кнопки.
type CallbackAction string

const (
	ActionGetReading      CallbackAction = "get_reading"
	ActionSetBirthData    CallbackAction = "set_birth_data"
	ActionBuySubscription CallbackAction = "buy_subscription"
	ActionStatus          CallbackAction = "status"
)

// KeyboardKind вариант inline-клавиатуры, прикрепляемой к ответу.
type KeyboardKind int

const (
	// KeyboardNone без клавиатуры.
	KeyboardNone KeyboardKind = iota
	// KeyboardMain стартовая клавиатура: веб-приложение, расклад, данные рождения.
	KeyboardMain
	// KeyboardReading клавиатура после расклада: веб-приложение и ещё один расклад.
	KeyboardReading
	// KeyboardBuy клавиатура с кнопкой покупки подписки.
	KeyboardBuy
)

// Event входящее событие, декодированное из обновления Telegram.
// Заполненность полей зависит от Kind: Text только для EventText,
// Action для EventCallback, PreCheckoutID для EventPreCheckout.
type Event struct {
	Kind          EventKind
	TelegramID    int64
	ChatID        int64
	Username      string
	FirstName     string
	LastName      string
	Text          string
	Action        CallbackAction
	PreCheckoutID string
}

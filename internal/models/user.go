// Package models содержит доменные структуры, описывающие пользователя бота,
// астрологические расклады и служебные записи, а также вспомогательные типы
// для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// User представляет собой профиль пользователя Telegram-бота.
// TelegramID — неизменяемый ключ, пользователь никогда не удаляется.
// Поля даты рождения хранятся как свободный текст, без семантической валидации.
// SubscriptionEnd может быть nil — это означает, что подписка никогда не покупалась.
type User struct {
	TelegramID         int64      `json:"telegram_id"`
	Username           string     `json:"username,omitempty"`
	FirstName          string     `json:"first_name,omitempty"`
	LastName           string     `json:"last_name,omitempty"`
	BirthDate          string     `json:"birth_date,omitempty"`
	BirthTime          string     `json:"birth_time,omitempty"`
	BirthPlace         string     `json:"birth_place,omitempty"`
	FreeReadingsLeft   int        `json:"free_readings_left"`
	SubscriptionActive bool       `json:"subscription_active"`
	SubscriptionEnd    *time.Time `json:"subscription_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// BirthData используется для передачи данных рождения между классификатором,
// хранилищем и снимком в раскладе.
type BirthData struct {
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time"`
	BirthPlace string `json:"birth_place"`
}

// HasBirthData сообщает, заполнены ли все три поля даты рождения.
func (u *User) HasBirthData() bool {
	return u.BirthDate != "" && u.BirthTime != "" && u.BirthPlace != ""
}

// ReminderInfo сообщение для очереди напоминаний об истекающей подписке.
type ReminderInfo struct {
	TelegramID      int64     `json:"telegram_id"`
	FirstName       string    `json:"first_name"`
	SubscriptionEnd time.Time `json:"subscription_end"`
}

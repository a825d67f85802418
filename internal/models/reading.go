package models

import "time"

// Reading представляет собой сохранённый астрологический расклад.
// Записи неизменяемы и никогда не обновляются после создания.
// BirthData — денормализованный снимок данных рождения на момент генерации,
// nil если данные рождения не были заполнены.
type Reading struct {
	ID         string     `json:"id"`
	TelegramID int64      `json:"telegram_id"`
	Question   string     `json:"question"`
	Reading    string     `json:"reading"`
	BirthData  *BirthData `json:"birth_data,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

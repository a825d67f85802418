package models

import "time"

// StatusCheck запись проверки доступности, создаваемая веб-клиентом.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// DummyStatusCheck используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в StatusCheck.
type DummyStatusCheck struct {
	ClientName string `json:"client_name" validate:"required"` // Имя клиента
}

package domain

import "time"

// Payment represents a payment record attached to a booking
// Интеграция с платёжным процессором вне сервиса: сюда попадает только
// итоговая запись с внешним идентификатором транзакции.
type Payment struct {
	ID              int64
	BookingID       int64
	Amount          float64
	Currency        string
	ProcessorStatus string
	ExternalTxnID   *string
	CreatedAt       time.Time
}

package notifications

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// Routing keys для topic exchange
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingStatusChanged = "booking.status_changed"
	KeyBookingReminder      = "booking.reminder"
)

// Типы напоминаний
const (
	Reminder24h = "24h"
	Reminder2h  = "2h"
)

// Recipient получатель уведомления
type Recipient struct {
	Kind       string  `json:"kind"` // customer | provider
	UserID     *int64  `json:"userId,omitempty"`
	Name       string  `json:"name,omitempty"`
	Email      string  `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ProviderID *int64  `json:"providerId,omitempty"`
}

// BookingEvent событие жизненного цикла бронирования
// Консьюмер рендерит из него email/SMS; сервис бронирований
// не знает про шаблоны и каналы доставки.
type BookingEvent struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	BookingID       int64   `json:"bookingId"`
	ServiceID       int64   `json:"serviceId"`
	ProviderID      int64   `json:"providerId"`
	BookingDate     string  `json:"bookingDate"` // YYYY-MM-DD
	StartTime       string  `json:"startTime"`   // HH:MM
	DurationMinutes int     `json:"durationMinutes"`
	TotalAmount     float64 `json:"totalAmount"`
	Status          string  `json:"status"`

	// Для status_changed
	OldStatus string `json:"oldStatus,omitempty"`

	// Для reminder
	ReminderType string `json:"reminderType,omitempty"`

	Recipient Recipient `json:"recipient"`
}

// customerRecipient собирает получателя-клиента из бронирования
func customerRecipient(b *domain.Booking) Recipient {
	return Recipient{
		Kind:   "customer",
		UserID: b.CustomerID,
		Name:   b.CustomerName,
		Email:  b.CustomerEmail,
		Phone:  b.CustomerPhone,
	}
}

// providerRecipient собирает получателя-провайдера из бронирования
func providerRecipient(b *domain.Booking) Recipient {
	return Recipient{
		Kind:       "provider",
		ProviderID: &b.ProviderID,
	}
}

package domain

import (
	"errors"

	"github.com/uslugi-platform/booking-service/pkg/types"
)

// Default working hours, applied when a provider has no schedule row for a weekday
const (
	DefaultOpenTime  = types.TimeString("09:00")
	DefaultCloseTime = types.TimeString("17:00")
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours

	MinRating = 1
	MaxRating = 5

	MaxSpecialRequestsLength    = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
	MaxServiceNameLength        = 200
)

// Reminder windows for the background poller
const (
	ReminderWindow24hMinutes = 24 * 60
	ReminderWindow2hMinutes  = 2 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultCurrency валюта платежей по умолчанию
const DefaultCurrency = "KZT"

// InactiveStatuses статусы, при которых бронирование не занимает слот
// Используются для фильтрации при подсчёте доступных слотов.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses статусы, при которых бронирование занимает слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// ErrUnknownStatus возвращается при попытке распарсить неизвестный статус
var ErrUnknownStatus = errors.New("domain: unknown booking status")

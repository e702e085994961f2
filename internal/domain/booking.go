package domain

import (
	"time"

	"github.com/uslugi-platform/booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// AllBookingStatuses перечисляет все известные статусы бронирования
var AllBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// validTransitions таблица допустимых переходов статусов
// Любой переход, которого нет в таблице, запрещён.
// Терминальные статусы (completed, cancelled, no_show) не имеют исходящих переходов.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusNoShow, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// IsValid returns true if the status is a recognized booking status
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if a transition from this status to target is allowed
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status
func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(validTransitions[s]) == 0
}

// String returns the string representation of the status
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus конвертирует строку в BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// Booking represents a reservation of a service at a date and time
// Контактные данные клиента денормализованы: для гостевых бронирований
// CustomerID равен nil и контакты - единственный способ связи.
type Booking struct {
	ID         int64
	ServiceID  int64
	ProviderID int64

	CustomerID    *int64 // nil для гостевых бронирований
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TotalAmount     float64
	Status          BookingStatus
	PaymentStatus   PaymentStatus

	SpecialRequests *string

	// Reminder flags, set by the background poller
	Reminder24hSent bool
	Reminder2hSent  bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// IsGuest returns true if the booking was made without a registered account
func (b *Booking) IsGuest() bool {
	return b.CustomerID == nil
}

// BelongsToCustomer returns true if userID is the booking's registered customer
func (b *Booking) BelongsToCustomer(userID int64) bool {
	return b.CustomerID != nil && *b.CustomerID == userID
}

// ProviderBookingsFilter фильтр для выборки бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	ServiceID       *int64         // Фильтр по услуге (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}

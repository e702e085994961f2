package bookings

import (
	"context"
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	// UpdateStatus и Cancel выполняют смену статуса только если текущий
	// статус строки равен from, иначе возвращают ErrStatusConflict.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error
	GetStats(ctx context.Context, providerID int64, from, to *time.Time) (domain.BookingStats, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
}

// Notifier интерфейс диспетчера уведомлений
type Notifier interface {
	SendBookingStatusUpdate(booking *domain.Booking, oldStatus domain.BookingStatus)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

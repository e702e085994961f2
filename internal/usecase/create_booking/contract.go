package create_booking

import (
	"context"
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetActiveByServiceAndDate получает активные бронирования услуги на дату
	// Внутри транзакции выборка блокирует строки (FOR UPDATE).
	GetActiveByServiceAndDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// WorkingHoursRepository интерфейс репозитория рабочих часов
type WorkingHoursRepository interface {
	GetByProviderID(ctx context.Context, providerID int64) ([]*domain.WorkingHours, error)
}

// Notifier интерфейс диспетчера уведомлений
type Notifier interface {
	SendBookingConfirmation(booking *domain.Booking)
	SendProviderNotification(booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package schedule

import (
	"context"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// WorkingHoursRepository интерфейс репозитория рабочих часов
type WorkingHoursRepository interface {
	GetByProviderID(ctx context.Context, providerID int64) ([]*domain.WorkingHours, error)
	ReplaceForProvider(ctx context.Context, providerID int64, hours []*domain.WorkingHours) error
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

package catalog

import (
	"context"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetByProviderID(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.Service, error)
	Update(ctx context.Context, id int64, update domain.ServiceUpdate) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

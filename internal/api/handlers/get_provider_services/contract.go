package get_provider_services

import (
	"context"

	"github.com/uslugi-platform/booking-service/internal/service/catalog/models"
)

type CatalogService interface {
	GetProviderServices(ctx context.Context, providerID int64, activeOnly bool) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

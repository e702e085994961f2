package get_service_reviews

import (
	"context"

	"github.com/uslugi-platform/booking-service/internal/service/reviews/models"
)

type ReviewService interface {
	GetServiceReviews(ctx context.Context, serviceID int64) (*models.ReviewListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

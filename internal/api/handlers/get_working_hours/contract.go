package get_working_hours

import (
	"context"

	"github.com/uslugi-platform/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSchedule(ctx context.Context, providerID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

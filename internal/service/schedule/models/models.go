package models

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/types"
)

// DayHours рабочее окно на один день недели
type DayHours struct {
	Weekday   int    `json:"weekday"`   // 0 = Sunday ... 6 = Saturday
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
}

// UpdateScheduleRequest запрос на полную замену расписания провайдера
// Дни, не перечисленные в Hours, становятся выходными.
type UpdateScheduleRequest struct {
	UserID     int64      `json:"userId"`
	ProviderID int64      `json:"providerId"`
	Hours      []DayHours `json:"hours"`
}

// ScheduleResponse ответ с расписанием провайдера
type ScheduleResponse struct {
	ProviderID int64      `json:"providerId"`
	Hours      []DayHours `json:"hours"`
}

// ToDomainHours конвертирует request в domain модели
func (r *UpdateScheduleRequest) ToDomainHours() []*domain.WorkingHours {
	hours := make([]*domain.WorkingHours, 0, len(r.Hours))
	for _, dh := range r.Hours {
		hours = append(hours, &domain.WorkingHours{
			ProviderID: r.ProviderID,
			Weekday:    time.Weekday(dh.Weekday),
			StartTime:  types.TimeString(dh.StartTime),
			EndTime:    types.TimeString(dh.EndTime),
		})
	}
	return hours
}

// FromDomainHours конвертирует domain модели в DTO
func FromDomainHours(providerID int64, hours []*domain.WorkingHours) *ScheduleResponse {
	resp := &ScheduleResponse{
		ProviderID: providerID,
		Hours:      make([]DayHours, 0, len(hours)),
	}
	for _, wh := range hours {
		resp.Hours = append(resp.Hours, DayHours{
			Weekday:   int(wh.Weekday),
			StartTime: wh.StartTime.String(),
			EndTime:   wh.EndTime.String(),
		})
	}
	return resp
}

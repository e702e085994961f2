package domain

import (
	"time"

	"github.com/uslugi-platform/booking-service/pkg/types"
)

// WorkingHours represents a provider's hours for one weekday
type WorkingHours struct {
	ID         int64
	ProviderID int64
	Weekday    time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DayWindow рабочее окно провайдера на конкретный день
// IsOpen=false означает выходной.
type DayWindow struct {
	IsOpen    bool
	StartTime types.TimeString
	EndTime   types.TimeString
}

// DefaultDayWindow возвращает окно по умолчанию 09:00-17:00
// Применяется, когда у провайдера нет записи рабочих часов на этот день.
func DefaultDayWindow() DayWindow {
	return DayWindow{
		IsOpen:    true,
		StartTime: DefaultOpenTime,
		EndTime:   DefaultCloseTime,
	}
}

// WindowFor возвращает рабочее окно на указанный день недели
// Провайдер без расписания работает по дефолтному окну каждый день.
// Если расписание задано, день без записи считается выходным.
func WindowFor(hours []*WorkingHours, weekday time.Weekday) DayWindow {
	if len(hours) == 0 {
		return DefaultDayWindow()
	}

	for _, wh := range hours {
		if wh.Weekday == weekday {
			return DayWindow{
				IsOpen:    true,
				StartTime: wh.StartTime,
				EndTime:   wh.EndTime,
			}
		}
	}

	return DayWindow{IsOpen: false}
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uslugi-platform/booking-service/pkg/types"
)

func TestWindowFor_NoSchedule(t *testing.T) {
	// Провайдер без расписания работает каждый день по дефолтному окну
	for d := time.Sunday; d <= time.Saturday; d++ {
		window := WindowFor(nil, d)
		assert.True(t, window.IsOpen)
		assert.Equal(t, DefaultOpenTime, window.StartTime)
		assert.Equal(t, DefaultCloseTime, window.EndTime)
	}
}

func TestWindowFor_ScheduledDay(t *testing.T) {
	hours := []*WorkingHours{
		{Weekday: time.Monday, StartTime: types.TimeString("10:00"), EndTime: types.TimeString("18:00")},
		{Weekday: time.Tuesday, StartTime: types.TimeString("08:00"), EndTime: types.TimeString("14:00")},
	}

	window := WindowFor(hours, time.Monday)
	assert.True(t, window.IsOpen)
	assert.Equal(t, types.TimeString("10:00"), window.StartTime)
	assert.Equal(t, types.TimeString("18:00"), window.EndTime)
}

func TestWindowFor_DayNotInSchedule(t *testing.T) {
	// Если расписание задано, день без записи - выходной
	hours := []*WorkingHours{
		{Weekday: time.Monday, StartTime: types.TimeString("10:00"), EndTime: types.TimeString("18:00")},
	}

	window := WindowFor(hours, time.Sunday)
	assert.False(t, window.IsOpen)
}

func TestNewBookingStats(t *testing.T) {
	counts := map[BookingStatus]int64{
		StatusPending:   2,
		StatusConfirmed: 1,
		StatusCompleted: 6,
		StatusCancelled: 1,
	}

	stats := NewBookingStats(counts, 45000)

	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, 45000.0, stats.Revenue)
	assert.Equal(t, 0.6, stats.ConversionRate)
	assert.Equal(t, int64(6), stats.CountsByStatus[StatusCompleted])
}

func TestNewBookingStats_Empty(t *testing.T) {
	stats := NewBookingStats(map[BookingStatus]int64{}, 0)

	assert.Equal(t, int64(0), stats.Total)
	assert.Equal(t, 0.0, stats.ConversionRate)
}

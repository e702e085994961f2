package get_available_slots

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/types"
)

// generateTimeSlots генерирует все кандидаты слотов внутри рабочего окна
// Шаг генерации равен длительности услуги: календарь услуги с duration=90
// состоит из полуторачасовых слотов, а не из фиксированных часовых.
// Слот, конец которого выходит за закрытие, не генерируется.
func generateTimeSlots(window domain.DayWindow, slotDuration int) ([]types.TimeString, error) {
	if !window.IsOpen {
		return []types.TimeString{}, nil
	}

	allSlots := make([]types.TimeString, 0)
	currentSlot := window.StartTime

	for currentSlot.IsBefore(window.EndTime) {
		slotEnd, err := currentSlot.AddMinutes(slotDuration)
		if err != nil {
			// Слот пересекает полночь - дальше генерировать нечего
			break
		}
		if slotEnd.IsAfter(window.EndTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)

		currentSlot, err = currentSlot.AddMinutes(slotDuration)
		if err != nil {
			break
		}
	}

	return allSlots, nil
}

// filterConflicting убирает слоты, пересекающиеся с активными бронированиями
// Пересечение по строгим неравенствам: граничащие интервалы
// (бронирование кончается ровно в начале слота) не конфликтуют.
func filterConflicting(slots []types.TimeString, slotDuration int, bookings []*domain.Booking) []types.TimeString {
	free := make([]types.TimeString, 0, len(slots))

	for _, slot := range slots {
		if !hasOverlap(slot, slotDuration, bookings) {
			free = append(free, slot)
		}
	}

	return free
}

// hasOverlap проверяет, пересекается ли слот хотя бы с одним активным бронированием
func hasOverlap(slotStart types.TimeString, slotDuration int, bookings []*domain.Booking) bool {
	slotEnd, err := slotStart.AddMinutes(slotDuration)
	if err != nil {
		return false
	}

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingStart := booking.StartTime
		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			continue
		}

		if bookingStart.IsBefore(slotEnd) && bookingEnd.IsAfter(slotStart) {
			return true
		}
	}

	return false
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// filterPastSlots для сегодняшней даты убирает уже прошедшие слоты
func filterPastSlots(slots []types.TimeString, requestDate, now time.Time) []types.TimeString {
	if !isSameDay(requestDate, now) {
		return slots
	}

	currentTime := types.NewTimeString(now)
	upcoming := make([]types.TimeString, 0, len(slots))

	for _, slot := range slots {
		if !slot.IsBefore(currentTime) {
			upcoming = append(upcoming, slot)
		}
	}

	return upcoming
}

package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.CustomerID != nil && *req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	// Контактные данные обязательны всегда: для гостевых бронирований
	// это единственный способ связаться с клиентом
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if err := validateEmail(req.CustomerEmail); err != nil {
		return err
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.SpecialRequests != nil && len(*req.SpecialRequests) > domain.MaxSpecialRequestsLength {
		return fmt.Errorf("%w: specialRequests exceeds %d characters", ErrInvalidInput, domain.MaxSpecialRequestsLength)
	}

	return nil
}

// validateEmail проверяет минимально необходимую структуру адреса
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid customerEmail format", ErrInvalidInput)
	}
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("%w: invalid customerEmail format", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}

// validateWithinWindow проверяет, что слот целиком помещается в рабочее окно
func validateWithinWindow(startTime types.TimeString, durationMinutes int, window domain.DayWindow) error {
	if !window.IsOpen {
		return ErrProviderClosed
	}

	if startTime.IsBefore(window.StartTime) {
		return fmt.Errorf("%w: slot starts before opening time %s", ErrOutsideWorkingHours, window.StartTime)
	}

	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: slot crosses midnight", ErrOutsideWorkingHours)
	}
	if slotEnd.IsAfter(window.EndTime) {
		return fmt.Errorf("%w: slot ends after closing time %s", ErrOutsideWorkingHours, window.EndTime)
	}

	return nil
}

// hasConflict проверяет пересечение запрошенного слота с активными бронированиями
// Строгие неравенства: граничащие интервалы не конфликтуют.
func hasConflict(startTime types.TimeString, durationMinutes int, bookings []*domain.Booking) (bool, error) {
	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return false, err
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

		if bookingStart.IsBefore(slotEnd) && bookingEnd.IsAfter(startTime) {
			return true, nil
		}
	}

	return false, nil
}

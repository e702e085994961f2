package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга деактивирована
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrProviderClosed возвращается, когда провайдер не работает в указанную дату
	ErrProviderClosed = errors.New("create_booking: provider is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда слот выходит за рабочее окно
	ErrOutsideWorkingHours = errors.New("create_booking: slot is outside working hours")

	// ErrSlotTaken возвращается, когда выбранный слот уже занят
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

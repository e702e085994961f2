package reviews

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("access denied")

	// ErrBookingNotCompleted возвращается при попытке оставить отзыв
	// на незавершённое бронирование
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrAlreadyReviewed возвращается при повторном отзыве на то же бронирование
	ErrAlreadyReviewed = errors.New("booking is already reviewed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

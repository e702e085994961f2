package review

import "errors"

var (
	// ErrReviewNotFound возвращается, когда отзыв не найден
	ErrReviewNotFound = errors.New("review.repository: review not found")

	// ErrDuplicateReview возвращается при повторном отзыве на бронирование
	// от того же клиента (уникальный индекс booking_id + customer_id)
	ErrDuplicateReview = errors.New("review.repository: duplicate review for booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("review.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("review.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("review.repository: failed to scan row")
)

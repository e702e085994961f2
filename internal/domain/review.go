package domain

import "time"

// Review represents a customer review of a completed booking
// Не более одного отзыва на пару (booking, customer), обеспечивается
// уникальным индексом в БД.
type Review struct {
	ID         int64
	BookingID  int64
	ServiceID  int64
	CustomerID int64
	Rating     int
	Comment    *string
	CreatedAt  time.Time
}

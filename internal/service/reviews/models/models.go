package models

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// CreateReviewRequest запрос на создание отзыва
type CreateReviewRequest struct {
	UserID    int64   `json:"userId"`
	BookingID int64   `json:"bookingId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

// ReviewResponse ответ с данными отзыва
type ReviewResponse struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	ServiceID  int64     `json:"serviceId"`
	CustomerID int64     `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewListResponse ответ со списком отзывов услуги
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
}

// FromDomainReview конвертирует domain модель в DTO
func FromDomainReview(r *domain.Review) *ReviewResponse {
	if r == nil {
		return nil
	}
	return &ReviewResponse{
		ID:         r.ID,
		BookingID:  r.BookingID,
		ServiceID:  r.ServiceID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// FromDomainReviewList конвертирует список отзывов и считает средний рейтинг
func FromDomainReviewList(reviews []*domain.Review) *ReviewListResponse {
	resp := &ReviewListResponse{
		Reviews: make([]ReviewResponse, 0, len(reviews)),
	}

	var sum int
	for _, review := range reviews {
		if dto := FromDomainReview(review); dto != nil {
			resp.Reviews = append(resp.Reviews, *dto)
			sum += review.Rating
		}
	}

	if len(resp.Reviews) > 0 {
		resp.AverageRating = float64(sum) / float64(len(resp.Reviews))
	}

	return resp
}

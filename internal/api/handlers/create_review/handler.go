package create_review

import (
	"errors"
	"net/http"

	"github.com/uslugi-platform/booking-service/internal/api/handlers"
	"github.com/uslugi-platform/booking-service/internal/api/middleware"
	"github.com/uslugi-platform/booking-service/internal/service/reviews"
	"github.com/uslugi-platform/booking-service/internal/service/reviews/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgBookingNotFound     = "бронирование не найдено"
	msgForbidden           = "доступ запрещен"
	msgBookingNotCompleted = "отзыв можно оставить только на завершённое бронирование"
	msgAlreadyReviewed     = "отзыв на это бронирование уже существует"
	msgInvalidInput        = "некорректные данные отзыва"
)

// CreateReviewRequest HTTP request model
type CreateReviewRequest struct {
	BookingID int64   `json:"bookingId"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment,omitempty"`
}

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reviews - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reviews - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.CreateReviewRequest{
		UserID:    userID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrBookingNotFound):
			h.logger.Warn("POST /reviews - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("POST /reviews - Access denied: booking_id=%d, user_id=%d", req.BookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviews.ErrBookingNotCompleted):
			h.logger.Warn("POST /reviews - Booking not completed: booking_id=%d", req.BookingID)
			handlers.RespondUnprocessable(w, msgBookingNotCompleted)

		case errors.Is(err, reviews.ErrAlreadyReviewed):
			h.logger.Warn("POST /reviews - Already reviewed: booking_id=%d, user_id=%d", req.BookingID, userID)
			handlers.RespondConflict(w, msgAlreadyReviewed)

		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("POST /reviews - Invalid input: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reviews - Failed to create review: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reviews - Review created successfully: review_id=%d, booking_id=%d, user_id=%d",
		result.ID, req.BookingID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

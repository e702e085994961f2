package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/uslugi-platform/booking-service/internal/domain"
	bookingRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	reviewRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/review"
	"github.com/uslugi-platform/booking-service/internal/service/reviews/models"
)

// Service сервис для работы с отзывами
type Service struct {
	reviewRepo  ReviewRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(reviewRepo ReviewRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create создает отзыв на завершённое бронирование
// Отзыв может оставить только зарегистрированный клиент бронирования,
// не более одного отзыва на бронирование.
func (s *Service) Create(ctx context.Context, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: review for booking=%d by user=%d, rating=%d", req.BookingID, req.UserID, req.Rating)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Create: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Create: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	// Гостевые бронирования отзывов не имеют: некому подтвердить авторство
	if !booking.BelongsToCustomer(req.UserID) {
		s.logger.Warn("Create: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusCompleted {
		s.logger.Warn("Create: booking id=%d is not completed, status=%s", req.BookingID, booking.Status)
		return nil, ErrBookingNotCompleted
	}

	review := &domain.Review{
		BookingID:  booking.ID,
		ServiceID:  booking.ServiceID,
		CustomerID: req.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicateReview) {
			s.logger.Warn("Create: booking id=%d already reviewed by user=%d", req.BookingID, req.UserID)
			return nil, ErrAlreadyReviewed
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created review id=%d for booking=%d", created.ID, req.BookingID)
	return models.FromDomainReview(created), nil
}

// GetServiceReviews получает отзывы услуги со средним рейтингом
func (s *Service) GetServiceReviews(ctx context.Context, serviceID int64) (*models.ReviewListResponse, error) {
	reviews, err := s.reviewRepo.GetByServiceID(ctx, serviceID)
	if err != nil {
		s.logger.Error("GetServiceReviews: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetServiceReviews - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainReviewList(reviews), nil
}

func validateCreateRequest(req *models.CreateReviewRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	return nil
}

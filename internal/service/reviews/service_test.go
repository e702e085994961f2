package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/domain"
	bookingstorage "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	reviewstorage "github.com/uslugi-platform/booking-service/internal/infra/storage/review"
	"github.com/uslugi-platform/booking-service/internal/service/reviews/models"
	"github.com/uslugi-platform/booking-service/pkg/ptr"
)

type fakeReviewRepo struct {
	reviews   []*domain.Review
	createErr error
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *review
	out.ID = 77
	return &out, nil
}

func (f *fakeReviewRepo) GetByServiceID(_ context.Context, _ int64) ([]*domain.Review, error) {
	return f.reviews, nil
}

type fakeBookingRepo struct {
	booking *domain.Booking
	err     error
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func completedBooking() *domain.Booking {
	return &domain.Booking{
		ID:         5,
		ServiceID:  3,
		ProviderID: 42,
		CustomerID: ptr.Ptr[int64](7),
		Status:     domain.StatusCompleted,
	}
}

func validRequest() *models.CreateReviewRequest {
	return &models.CreateReviewRequest{
		UserID:    7,
		BookingID: 5,
		Rating:    5,
		Comment:   ptr.Ptr("great service"),
	}
}

func TestCreate(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{booking: completedBooking()}, nopLogger{})

	resp, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(77), resp.ID)
	assert.Equal(t, int64(3), resp.ServiceID)
	assert.Equal(t, int64(7), resp.CustomerID)
	assert.Equal(t, 5, resp.Rating)
}

func TestCreate_NotCompleted(t *testing.T) {
	booking := completedBooking()
	booking.Status = domain.StatusConfirmed
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{booking: booking}, nopLogger{})

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotCompleted)
}

func TestCreate_NotOwnBooking(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{booking: completedBooking()}, nopLogger{})

	req := validRequest()
	req.UserID = 99

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreate_GuestBooking(t *testing.T) {
	booking := completedBooking()
	booking.CustomerID = nil
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{booking: booking}, nopLogger{})

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreate_Duplicate(t *testing.T) {
	svc := NewService(
		&fakeReviewRepo{createErr: reviewstorage.ErrDuplicateReview},
		&fakeBookingRepo{booking: completedBooking()},
		nopLogger{},
	)

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreate_BookingNotFound(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{err: bookingstorage.ErrBookingNotFound}, nopLogger{})

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCreate_RatingBounds(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{booking: completedBooking()}, nopLogger{})

	for _, rating := range []int{0, 6, -1} {
		req := validRequest()
		req.Rating = rating

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestGetServiceReviews_AverageRating(t *testing.T) {
	repo := &fakeReviewRepo{
		reviews: []*domain.Review{
			{ID: 1, ServiceID: 3, CustomerID: 7, Rating: 5},
			{ID: 2, ServiceID: 3, CustomerID: 8, Rating: 4},
			{ID: 3, ServiceID: 3, CustomerID: 9, Rating: 3},
		},
	}
	svc := NewService(repo, &fakeBookingRepo{}, nopLogger{})

	resp, err := svc.GetServiceReviews(context.Background(), 3)
	require.NoError(t, err)

	assert.Len(t, resp.Reviews, 3)
	assert.InDelta(t, 4.0, resp.AverageRating, 1e-9)
}

func TestGetServiceReviews_Empty(t *testing.T) {
	svc := NewService(&fakeReviewRepo{}, &fakeBookingRepo{}, nopLogger{})

	resp, err := svc.GetServiceReviews(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, resp.Reviews)
	assert.Zero(t, resp.AverageRating)
}

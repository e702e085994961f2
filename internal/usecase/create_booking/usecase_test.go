package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/domain"
	bookingstorage "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	servicestorage "github.com/uslugi-platform/booking-service/internal/infra/storage/service"
	"github.com/uslugi-platform/booking-service/pkg/ptr"
	"github.com/uslugi-platform/booking-service/pkg/types"
)

type fakeBookingRepo struct {
	existing  []*domain.Booking
	createErr error
	created   *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *booking
	out.ID = 101
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.created = &out
	return &out, nil
}

func (f *fakeBookingRepo) GetActiveByServiceAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.existing, nil
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, f.err
}

type fakeWorkingHoursRepo struct {
	hours []*domain.WorkingHours
}

func (f *fakeWorkingHoursRepo) GetByProviderID(_ context.Context, _ int64) ([]*domain.WorkingHours, error) {
	return f.hours, nil
}

type fakeNotifier struct {
	confirmations int
	providerNotes int
}

func (f *fakeNotifier) SendBookingConfirmation(*domain.Booking) { f.confirmations++ }
func (f *fakeNotifier) SendProviderNotification(*domain.Booking) { f.providerNotes++ }

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              1,
		ProviderID:      42,
		Name:            "Manicure",
		Price:           7500,
		DurationMinutes: 60,
		IsActive:        true,
	}
}

func validRequest(t *testing.T) *Request {
	t.Helper()
	return &Request{
		ServiceID:     1,
		CustomerID:    ptr.Ptr[int64](7),
		CustomerName:  "Aizhan K",
		CustomerEmail: "aizhan@example.com",
		Date:          time.Now().AddDate(0, 0, 3),
		StartTime:     mustTime(t, "10:00"),
	}
}

func newUseCase(bookings *fakeBookingRepo, services *fakeServiceRepo, notifier *fakeNotifier) *UseCase {
	return NewUseCase(
		bookings,
		services,
		&fakeWorkingHoursRepo{},
		notifier,
		fakeTxManager{},
		nopLogger{},
	)
}

func TestExecute_Success(t *testing.T) {
	bookings := &fakeBookingRepo{}
	notifier := &fakeNotifier{}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, notifier)

	resp, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, int64(42), resp.ProviderID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	// Цена услуги фиксируется в бронировании
	assert.Equal(t, 7500.0, resp.TotalAmount)
	assert.Equal(t, 60, resp.DurationMinutes)

	assert.Equal(t, 1, notifier.confirmations)
	assert.Equal(t, 1, notifier.providerNotes)
}

func TestExecute_GuestBooking(t *testing.T) {
	bookings := &fakeBookingRepo{}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	req := validRequest(t)
	req.CustomerID = nil

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, "Aizhan K", resp.CustomerName)
}

func TestExecute_SlotConflict(t *testing.T) {
	bookings := &fakeBookingRepo{
		existing: []*domain.Booking{
			{
				StartTime:       mustTime(t, "10:00"),
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
			},
		},
	}
	notifier := &fakeNotifier{}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, notifier)

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Zero(t, notifier.confirmations)
}

func TestExecute_PartialOverlapConflict(t *testing.T) {
	// Занято 09:30-10:30, запрошен слот 10:00-11:00
	bookings := &fakeBookingRepo{
		existing: []*domain.Booking{
			{
				StartTime:       mustTime(t, "09:30"),
				DurationMinutes: 60,
				Status:          domain.StatusPending,
			},
		},
	}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_AdjacentBookingAllowed(t *testing.T) {
	// Занято 09:00-10:00, запрошен слот 10:00-11:00
	bookings := &fakeBookingRepo{
		existing: []*domain.Booking{
			{
				StartTime:       mustTime(t, "09:00"),
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
			},
		},
	}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	bookings := &fakeBookingRepo{
		existing: []*domain.Booking{
			{
				StartTime:       mustTime(t, "10:00"),
				DurationMinutes: 60,
				Status:          domain.StatusCancelled,
			},
		},
	}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)
}

func TestExecute_UniqueIndexRace(t *testing.T) {
	// Конкурент успел создать бронирование между проверкой и вставкой
	bookings := &fakeBookingRepo{createErr: bookingstorage.ErrSlotTaken}
	uc := newUseCase(bookings, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeServiceRepo{err: servicestorage.ErrServiceNotFound}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceInactive(t *testing.T) {
	svc := testService()
	svc.IsActive = false
	uc := newUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: svc}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_DateInPast(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	req := validRequest(t)
	req.Date = time.Now().AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: testService()}, &fakeNotifier{})

	// Дефолтное окно 09:00-17:00, слот 16:30-17:30 выходит за закрытие
	req := validRequest(t)
	req.StartTime = mustTime(t, "16:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_ProviderClosedOnScheduledDayOff(t *testing.T) {
	// Расписание задано только на понедельник
	hours := []*domain.WorkingHours{
		{
			ProviderID: 42,
			Weekday:    time.Monday,
			StartTime:  mustTime(t, "09:00"),
			EndTime:    mustTime(t, "18:00"),
		},
	}

	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService()},
		&fakeWorkingHoursRepo{hours: hours},
		&fakeNotifier{},
		fakeTxManager{},
		nopLogger{},
	)

	req := validRequest(t)
	// Подбираем ближайшее будущее воскресенье
	req.Date = time.Now().AddDate(0, 0, 1)
	for req.Date.Weekday() != time.Sunday {
		req.Date = req.Date.AddDate(0, 0, 1)
	}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProviderClosed)
}

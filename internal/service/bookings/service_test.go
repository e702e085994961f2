package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/domain"
	bookingstorage "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	"github.com/uslugi-platform/booking-service/internal/service/bookings/models"
	"github.com/uslugi-platform/booking-service/pkg/ptr"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error
	// rereadBooking подменяет бронирование со второго чтения
	rereadBooking *domain.Booking
	getCalls      int

	updatedFrom       *domain.BookingStatus
	updatedStatus     *domain.BookingStatus
	paymentStatus     *domain.PaymentStatus
	cancelled         bool
	cancelFrom        *domain.BookingStatus
	cancelReason      string
	cancelErr         error
	updateStatusErr   error
	stats             domain.BookingStats
	statsErr          error
	customerBookings  []*domain.Booking
	providerBookings  []*domain.Booking
	lastProviderQuery *domain.ProviderBookingsFilter
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.getCalls++
	if f.getCalls > 1 && f.rereadBooking != nil {
		return f.rereadBooking, nil
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.customerBookings, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	f.lastProviderQuery = &filter
	return f.providerBookings, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, from, to domain.BookingStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	f.updatedFrom = &from
	f.updatedStatus = &to
	return nil
}

func (f *fakeBookingRepo) SetPaymentStatus(_ context.Context, _ int64, status domain.PaymentStatus) error {
	f.paymentStatus = &status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, from domain.BookingStatus, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = true
	f.cancelFrom = &from
	f.cancelReason = reason
	return nil
}

func (f *fakeBookingRepo) GetStats(_ context.Context, _ int64, _, _ *time.Time) (domain.BookingStats, error) {
	return f.stats, f.statsErr
}

type fakePaymentRepo struct {
	created *domain.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	out := *p
	out.ID = 55
	f.created = &out
	return &out, nil
}

type fakeNotifier struct {
	updates []struct {
		newStatus domain.BookingStatus
		oldStatus domain.BookingStatus
	}
}

func (f *fakeNotifier) SendBookingStatusUpdate(booking *domain.Booking, oldStatus domain.BookingStatus) {
	f.updates = append(f.updates, struct {
		newStatus domain.BookingStatus
		oldStatus domain.BookingStatus
	}{booking.Status, oldStatus})
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	customerID = int64(7)
	providerID = int64(42)
	strangerID = int64(99)
)

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              1,
		ServiceID:       3,
		ProviderID:      providerID,
		CustomerID:      ptr.Ptr(customerID),
		CustomerName:    "Aizhan K",
		CustomerEmail:   "aizhan@example.com",
		BookingDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		TotalAmount:     7500,
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
	}
}

func newService(repo *fakeBookingRepo, payments *fakePaymentRepo, notifier *fakeNotifier) *Service {
	return NewService(repo, payments, notifier, fakeTxManager{}, nopLogger{})
}

func TestGetByID_Access(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	// Клиент видит своё бронирование
	resp, err := svc.GetByID(context.Background(), 1, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Провайдер видит бронирование своей услуги
	_, err = svc.GetByID(context.Background(), 1, providerID)
	require.NoError(t, err)

	// Посторонний пользователь доступа не имеет
	_, err = svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingstorage.ErrBookingNotFound}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	_, err := svc.GetByID(context.Background(), 1, customerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	notifier := &fakeNotifier{}
	svc := newService(repo, &fakePaymentRepo{}, notifier)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: providerID,
		Status: "confirmed",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)
	require.NotNil(t, repo.updatedFrom)
	assert.Equal(t, domain.StatusPending, *repo.updatedFrom)

	require.Len(t, notifier.updates, 1)
	assert.Equal(t, domain.StatusPending, notifier.updates[0].oldStatus)
	assert.Equal(t, domain.StatusConfirmed, notifier.updates[0].newStatus)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	// pending -> completed запрещён, нужно пройти через confirmed и in_progress
	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: providerID,
		Status: "completed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_TerminalStatus(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusCompleted)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: providerID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: providerID,
		Status: "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_ByCustomer(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	notifier := &fakeNotifier{}
	svc := newService(repo, &fakePaymentRepo{}, notifier)

	// Клиент отменяет своё бронирование через смену статуса
	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: customerID,
		Status: "cancelled",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusCancelled, *repo.updatedStatus)
	require.NotNil(t, repo.updatedFrom)
	assert.Equal(t, domain.StatusPending, *repo.updatedFrom)

	require.Len(t, notifier.updates, 1)
	assert.Equal(t, domain.StatusCancelled, notifier.updates[0].newStatus)
}

func TestUpdateStatus_Stranger(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: strangerID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	repo := &fakeBookingRepo{
		booking:         testBooking(domain.StatusPending),
		updateStatusErr: bookingstorage.ErrStatusConflict,
	}
	notifier := &fakeNotifier{}
	svc := newService(repo, &fakePaymentRepo{}, notifier)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: providerID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, notifier.updates)
}

func TestUpdateStatus_CompletedCreatesPayment(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusInProgress)}
	payments := &fakePaymentRepo{}
	notifier := &fakeNotifier{}
	svc := newService(repo, payments, notifier)

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: providerID,
		Status: "completed",
	})
	require.NoError(t, err)

	require.NotNil(t, payments.created)
	assert.Equal(t, int64(1), payments.created.BookingID)
	assert.Equal(t, 7500.0, payments.created.Amount)
	assert.Equal(t, domain.DefaultCurrency, payments.created.Currency)

	require.NotNil(t, repo.paymentStatus)
	assert.Equal(t, domain.PaymentPaid, *repo.paymentStatus)
}

func TestCancel_ByCustomer(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	notifier := &fakeNotifier{}
	svc := newService(repo, &fakePaymentRepo{}, notifier)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             customerID,
		CancellationReason: "plans changed",
	})
	require.NoError(t, err)

	assert.True(t, repo.cancelled)
	require.NotNil(t, repo.cancelFrom)
	assert.Equal(t, domain.StatusConfirmed, *repo.cancelFrom)
	assert.Equal(t, "plans changed", repo.cancelReason)

	require.Len(t, notifier.updates, 1)
	assert.Equal(t, domain.StatusCancelled, notifier.updates[0].newStatus)
}

func TestCancel_Idempotent(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusCancelled)}
	notifier := &fakeNotifier{}
	svc := newService(repo, &fakePaymentRepo{}, notifier)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: customerID})
	require.NoError(t, err)

	// Повторная отмена ничего не делает и не шлёт уведомлений
	assert.False(t, repo.cancelled)
	assert.Empty(t, notifier.updates)
}

func TestCancel_CompletedNotCancellable(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusCompleted)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: customerID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: strangerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_ConcurrentCancel(t *testing.T) {
	repo := &fakeBookingRepo{
		booking:       testBooking(domain.StatusConfirmed),
		rereadBooking: testBooking(domain.StatusCancelled),
		cancelErr:     bookingstorage.ErrStatusConflict,
	}
	notifier := &fakeNotifier{}
	svc := newService(repo, &fakePaymentRepo{}, notifier)

	// Вторая сторона успела отменить первой, результат тот же
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: customerID})
	require.NoError(t, err)
	assert.Empty(t, notifier.updates)
}

func TestCancel_ConcurrentComplete(t *testing.T) {
	repo := &fakeBookingRepo{
		booking:       testBooking(domain.StatusInProgress),
		rereadBooking: testBooking(domain.StatusCompleted),
		cancelErr:     bookingstorage.ErrStatusConflict,
	}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: customerID})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestGetProviderBookings_AccessAndFilter(t *testing.T) {
	repo := &fakeBookingRepo{providerBookings: []*domain.Booking{testBooking(domain.StatusConfirmed)}}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	status := "confirmed"
	resp, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		UserID:     providerID,
		ProviderID: providerID,
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	require.NotNil(t, repo.lastProviderQuery)
	require.NotNil(t, repo.lastProviderQuery.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastProviderQuery.Status)

	// Чужой пользователь не видит бронирования провайдера
	_, err = svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		UserID:     strangerID,
		ProviderID: providerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetStats(t *testing.T) {
	repo := &fakeBookingRepo{
		stats: domain.NewBookingStats(map[domain.BookingStatus]int64{
			domain.StatusCompleted: 6,
			domain.StatusCancelled: 2,
			domain.StatusPending:   2,
		}, 45000),
	}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	resp, err := svc.GetStats(context.Background(), &models.GetStatsRequest{
		UserID:     providerID,
		ProviderID: providerID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.Total)
	assert.Equal(t, 45000.0, resp.Revenue)
	assert.InDelta(t, 0.6, resp.ConversionRate, 1e-9)
	assert.Equal(t, int64(6), resp.ByStatus["completed"])

	// Статусы без бронирований присутствуют с нулями
	assert.Equal(t, int64(0), resp.ByStatus["in_progress"])
	assert.Equal(t, int64(0), resp.ByStatus["no_show"])
}

func TestGetStats_Empty(t *testing.T) {
	repo := &fakeBookingRepo{
		stats: domain.NewBookingStats(map[domain.BookingStatus]int64{}, 0),
	}
	svc := newService(repo, &fakePaymentRepo{}, &fakeNotifier{})

	resp, err := svc.GetStats(context.Background(), &models.GetStatsRequest{
		UserID:     providerID,
		ProviderID: providerID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.Total)
	require.Len(t, resp.ByStatus, len(domain.AllBookingStatuses))
	for _, status := range domain.AllBookingStatuses {
		assert.Equal(t, int64(0), resp.ByStatus[string(status)])
	}
}

func TestGetStats_InvalidPeriod(t *testing.T) {
	svc := newService(&fakeBookingRepo{}, &fakePaymentRepo{}, &fakeNotifier{})

	start := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -5)

	_, err := svc.GetStats(context.Background(), &models.GetStatsRequest{
		UserID:     providerID,
		ProviderID: providerID,
		StartDate:  &start,
		EndDate:    &end,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

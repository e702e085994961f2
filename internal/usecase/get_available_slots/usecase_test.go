package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/domain"
	servicestorage "github.com/uslugi-platform/booking-service/internal/infra/storage/service"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetActiveByServiceAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, f.err
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
	err   error
}

func (f *fakeWorkingHoursRepo) GetByProviderID(_ context.Context, _ int64) ([]*domain.WorkingHours, error) {
	return f.hours, f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testService(t *testing.T, durationMinutes int) *domain.Service {
	t.Helper()
	return &domain.Service{
		ID:              1,
		ProviderID:      42,
		Name:            "Haircut",
		DurationMinutes: durationMinutes,
		Price:           5000,
		IsActive:        true,
	}
}

func TestExecute_DefaultWindow(t *testing.T) {
	// Понедельник, заранее будущего относительно now
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ServiceID)
	assert.Equal(t, int64(42), resp.ProviderID)
	assert.Equal(t, 60, resp.SlotDurationMinutes)
	// Дефолтное окно 09:00-17:00 даёт 8 часовых слотов
	assert.Len(t, resp.Slots, 8)
	assert.Equal(t, "09:00", resp.Slots[0].String())
	assert.Equal(t, "16:00", resp.Slots[len(resp.Slots)-1].String())
}

func TestExecute_BookedSlotsExcluded(t *testing.T) {
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := New(
		&fakeBookingRepo{bookings: []*domain.Booking{
			activeBooking(t, "10:00", 60),
			activeBooking(t, "14:00", 60),
		}},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "11:00", "12:00", "13:00", "15:00", "16:00",
	}, slotStrings(resp.Slots))
}

func TestExecute_ScheduledDayOff(t *testing.T) {
	// Воскресенье, расписание задано только на понедельник
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	hours := []*domain.WorkingHours{
		{
			ProviderID: 42,
			Weekday:    time.Monday,
			StartTime:  mustTime(t, "10:00"),
			EndTime:    mustTime(t, "18:00"),
		},
	}

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{hours: hours},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CustomSchedule(t *testing.T) {
	// Понедельник с расписанием 10:00-13:00
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	hours := []*domain.WorkingHours{
		{
			ProviderID: 42,
			Weekday:    time.Monday,
			StartTime:  mustTime(t, "10:00"),
			EndTime:    mustTime(t, "13:00"),
		},
	}

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{hours: hours},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: date})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00", "12:00"}, slotStrings(resp.Slots))
}

func TestExecute_DateInPast(t *testing.T) {
	date := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: date})
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestExecute_TodayHidesElapsedSlots(t *testing.T) {
	now := time.Date(2025, 6, 16, 13, 15, 0, 0, time.UTC)

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: now})
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "15:00", "16:00"}, slotStrings(resp.Slots))
}

func TestExecute_ServiceNotFound(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{err: servicestorage.ErrServiceNotFound},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{ServiceID: 99, Date: now.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceInactive(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	svc := testService(t, 60)
	svc.IsActive = false

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: svc},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{ServiceID: 1, Date: now.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	uc := New(
		&fakeBookingRepo{},
		&fakeServiceRepo{service: testService(t, 60)},
		&fakeWorkingHoursRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{ServiceID: 0, Date: now})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

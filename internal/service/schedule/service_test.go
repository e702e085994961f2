package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/internal/service/schedule/models"
)

type fakeWorkingHoursRepo struct {
	hours    []*domain.WorkingHours
	replaced []*domain.WorkingHours
}

func (f *fakeWorkingHoursRepo) GetByProviderID(_ context.Context, _ int64) ([]*domain.WorkingHours, error) {
	return f.hours, nil
}

func (f *fakeWorkingHoursRepo) ReplaceForProvider(_ context.Context, _ int64, hours []*domain.WorkingHours) error {
	f.replaced = hours
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(repo *fakeWorkingHoursRepo) *Service {
	return NewService(repo, fakeTxManager{}, nopLogger{})
}

func TestUpdateSchedule(t *testing.T) {
	repo := &fakeWorkingHoursRepo{}
	svc := newService(repo)

	resp, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:     42,
		ProviderID: 42,
		Hours: []models.DayHours{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00"},
			{Weekday: 2, StartTime: "10:00", EndTime: "16:00"},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.replaced, 2)
	assert.Equal(t, time.Monday, repo.replaced[0].Weekday)
	assert.Equal(t, "09:00", repo.replaced[0].StartTime.String())

	assert.Len(t, resp.Hours, 2)
}

func TestUpdateSchedule_AccessDenied(t *testing.T) {
	svc := newService(&fakeWorkingHoursRepo{})

	_, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
		UserID:     99,
		ProviderID: 42,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateSchedule_Validation(t *testing.T) {
	svc := newService(&fakeWorkingHoursRepo{})

	tests := []struct {
		name  string
		hours []models.DayHours
	}{
		{"weekday out of range", []models.DayHours{{Weekday: 7, StartTime: "09:00", EndTime: "18:00"}}},
		{"duplicate weekday", []models.DayHours{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
			{Weekday: 1, StartTime: "13:00", EndTime: "18:00"},
		}},
		{"malformed start", []models.DayHours{{Weekday: 1, StartTime: "9am", EndTime: "18:00"}}},
		{"start equals end", []models.DayHours{{Weekday: 1, StartTime: "09:00", EndTime: "09:00"}}},
		{"start after end", []models.DayHours{{Weekday: 1, StartTime: "18:00", EndTime: "09:00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSchedule(context.Background(), &models.UpdateScheduleRequest{
				UserID:     42,
				ProviderID: 42,
				Hours:      tt.hours,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetSchedule_Empty(t *testing.T) {
	svc := newService(&fakeWorkingHoursRepo{})

	resp, err := svc.GetSchedule(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, resp.Hours)
	assert.Equal(t, int64(42), resp.ProviderID)
}

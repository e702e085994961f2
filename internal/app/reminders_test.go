package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/internal/service/notifications"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeReminderRepo struct {
	due       map[string][]*domain.Booking
	dueErr    error
	queried   []dueQuery
	marked    []markedCall
	markedErr error
}

type dueQuery struct {
	fromMinutes int
	toMinutes   int
	flagColumn  string
}

type markedCall struct {
	id         int64
	flagColumn string
}

func (f *fakeReminderRepo) GetDueReminders(ctx context.Context, now time.Time, fromMinutes, toMinutes int, flagColumn string) ([]*domain.Booking, error) {
	if f.dueErr != nil {
		return nil, f.dueErr
	}
	f.queried = append(f.queried, dueQuery{fromMinutes: fromMinutes, toMinutes: toMinutes, flagColumn: flagColumn})
	return f.due[flagColumn], nil
}

func (f *fakeReminderRepo) MarkReminderSent(ctx context.Context, id int64, flagColumn string) error {
	if f.markedErr != nil {
		return f.markedErr
	}
	f.marked = append(f.marked, markedCall{id: id, flagColumn: flagColumn})
	return nil
}

type fakeReminderNotifier struct {
	sent []sentReminder
}

type sentReminder struct {
	bookingID    int64
	reminderType string
}

func (f *fakeReminderNotifier) SendBookingReminder(booking *domain.Booking, reminderType string) {
	f.sent = append(f.sent, sentReminder{bookingID: booking.ID, reminderType: reminderType})
}

func TestReminderWorker_Poll_BothWindows(t *testing.T) {
	repo := &fakeReminderRepo{
		due: map[string][]*domain.Booking{
			"reminder_24h_sent": {{ID: 1}, {ID: 2}},
			"reminder_2h_sent":  {{ID: 3}},
		},
	}
	notifier := &fakeReminderNotifier{}
	worker := NewReminderWorker(repo, notifier, time.Minute, nopLogger{})

	worker.poll(context.Background())

	require.Len(t, notifier.sent, 3)
	assert.Equal(t, sentReminder{bookingID: 1, reminderType: notifications.Reminder24h}, notifier.sent[0])
	assert.Equal(t, sentReminder{bookingID: 2, reminderType: notifications.Reminder24h}, notifier.sent[1])
	assert.Equal(t, sentReminder{bookingID: 3, reminderType: notifications.Reminder2h}, notifier.sent[2])

	require.Len(t, repo.marked, 3)
	assert.Equal(t, markedCall{id: 1, flagColumn: "reminder_24h_sent"}, repo.marked[0])
	assert.Equal(t, markedCall{id: 3, flagColumn: "reminder_2h_sent"}, repo.marked[2])
}

func TestReminderWorker_Poll_WindowsDoNotOverlap(t *testing.T) {
	repo := &fakeReminderRepo{due: map[string][]*domain.Booking{}}
	worker := NewReminderWorker(repo, &fakeReminderNotifier{}, time.Minute, nopLogger{})

	worker.poll(context.Background())

	// Суточное окно начинается там, где заканчивается двухчасовое,
	// одно бронирование не попадает в оба окна за один проход
	require.Len(t, repo.queried, 2)
	assert.Equal(t, dueQuery{
		fromMinutes: domain.ReminderWindow2hMinutes,
		toMinutes:   domain.ReminderWindow24hMinutes,
		flagColumn:  "reminder_24h_sent",
	}, repo.queried[0])
	assert.Equal(t, dueQuery{
		fromMinutes: 0,
		toMinutes:   domain.ReminderWindow2hMinutes,
		flagColumn:  "reminder_2h_sent",
	}, repo.queried[1])
	assert.Equal(t, repo.queried[1].toMinutes, repo.queried[0].fromMinutes)
}

func TestReminderWorker_Poll_NothingDue(t *testing.T) {
	repo := &fakeReminderRepo{due: map[string][]*domain.Booking{}}
	notifier := &fakeReminderNotifier{}
	worker := NewReminderWorker(repo, notifier, time.Minute, nopLogger{})

	worker.poll(context.Background())

	assert.Empty(t, notifier.sent)
	assert.Empty(t, repo.marked)
}

func TestReminderWorker_Poll_RepoError(t *testing.T) {
	repo := &fakeReminderRepo{dueErr: errors.New("db down")}
	notifier := &fakeReminderNotifier{}
	worker := NewReminderWorker(repo, notifier, time.Minute, nopLogger{})

	worker.poll(context.Background())

	assert.Empty(t, notifier.sent)
}

func TestReminderWorker_Poll_MarkFailsNoSend(t *testing.T) {
	repo := &fakeReminderRepo{
		due: map[string][]*domain.Booking{
			"reminder_24h_sent": {{ID: 1}},
		},
		markedErr: errors.New("db down"),
	}
	notifier := &fakeReminderNotifier{}
	worker := NewReminderWorker(repo, notifier, time.Minute, nopLogger{})

	worker.poll(context.Background())

	assert.Empty(t, notifier.sent)
}

func TestReminderWorker_StartStop(t *testing.T) {
	repo := &fakeReminderRepo{due: map[string][]*domain.Booking{}}
	notifier := &fakeReminderNotifier{}
	worker := NewReminderWorker(repo, notifier, time.Hour, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	time.Sleep(10 * time.Millisecond)
	worker.Stop()
}

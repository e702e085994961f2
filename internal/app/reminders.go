package app

import (
	"context"
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/internal/service/notifications"
)

// BookingReminderRepository интерфейс репозитория для поиска бронирований,
// которым пора отправить напоминание
type BookingReminderRepository interface {
	GetDueReminders(ctx context.Context, now time.Time, fromMinutes, toMinutes int, flagColumn string) ([]*domain.Booking, error)
	MarkReminderSent(ctx context.Context, id int64, flagColumn string) error
}

// ReminderNotifier интерфейс диспетчера уведомлений
type ReminderNotifier interface {
	SendBookingReminder(booking *domain.Booking, reminderType string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// reminderWindow одно окно напоминаний
// Окна не пересекаются: суточное начинается там, где кончается двухчасовое,
// иначе бронирование со скорым началом собрало бы оба напоминания за один проход.
type reminderWindow struct {
	reminderType string
	fromMinutes  int
	toMinutes    int
	flagColumn   string
}

// ReminderWorker периодически находит бронирования, до начала которых
// осталось ~24 часа или ~2 часа, и отправляет напоминания
// Каждое напоминание отправляется не более одного раза, флаг отправки
// хранится в самой записи бронирования.
type ReminderWorker struct {
	repo     BookingReminderRepository
	notifier ReminderNotifier
	interval time.Duration
	logger   Logger
	stopChan chan struct{}

	windows []reminderWindow
}

// NewReminderWorker создаёт новый воркер напоминаний
func NewReminderWorker(
	repo BookingReminderRepository,
	notifier ReminderNotifier,
	interval time.Duration,
	logger Logger,
) *ReminderWorker {
	return &ReminderWorker{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		windows: []reminderWindow{
			{
				reminderType: notifications.Reminder24h,
				fromMinutes:  domain.ReminderWindow2hMinutes,
				toMinutes:    domain.ReminderWindow24hMinutes,
				flagColumn:   "reminder_24h_sent",
			},
			{
				reminderType: notifications.Reminder2h,
				fromMinutes:  0,
				toMinutes:    domain.ReminderWindow2hMinutes,
				flagColumn:   "reminder_2h_sent",
			},
		},
	}
}

// Start запускает воркер в фоне
func (w *ReminderWorker) Start(ctx context.Context) {
	w.logger.Info("ReminderWorker: starting, interval=%s", w.interval)
	go w.run(ctx)
}

// Stop останавливает воркер
func (w *ReminderWorker) Stop() {
	w.logger.Info("ReminderWorker: stopping")
	close(w.stopChan)
}

func (w *ReminderWorker) run(ctx context.Context) {
	// Первый проход сразу при старте
	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.poll(ctx)
		case <-w.stopChan:
			w.logger.Info("ReminderWorker: stopped")
			return
		case <-ctx.Done():
			w.logger.Info("ReminderWorker: cancelled")
			return
		}
	}
}

// poll один проход по всем окнам напоминаний
func (w *ReminderWorker) poll(ctx context.Context) {
	now := time.Now()

	for _, window := range w.windows {
		bookings, err := w.repo.GetDueReminders(ctx, now, window.fromMinutes, window.toMinutes, window.flagColumn)
		if err != nil {
			w.logger.Error("ReminderWorker: failed to get due reminders (%s): %v", window.reminderType, err)
			continue
		}

		for _, booking := range bookings {
			// Сначала помечаем, потом отправляем
			if err := w.repo.MarkReminderSent(ctx, booking.ID, window.flagColumn); err != nil {
				w.logger.Error("ReminderWorker: failed to mark reminder sent: booking_id=%d, error=%v",
					booking.ID, err)
				continue
			}

			w.notifier.SendBookingReminder(booking, window.reminderType)
			w.logger.Info("ReminderWorker: reminder dispatched: booking_id=%d, type=%s",
				booking.ID, window.reminderType)
		}
	}
}

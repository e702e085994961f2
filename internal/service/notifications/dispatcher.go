package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// Publisher интерфейс публикации событий в брокер
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Metrics интерфейс счётчика опубликованных событий
type Metrics interface {
	ObserveEvent(event string, success bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const (
	// publishTimeout таймаут одной попытки публикации
	// Зависший брокер не должен удерживать goroutine надолго.
	publishTimeout = 5 * time.Second

	// publishRetries количество повторов при ошибке публикации
	publishRetries = 3
)

// Dispatcher отправляет уведомления о бронированиях в исходящую очередь
//
// Политика доставки - best effort, at-most-once: ошибки публикации
// логируются и НИКОГДА не возвращаются вызывающему. Успех бронирования
// не зависит от доступности брокера.
type Dispatcher struct {
	publisher Publisher
	metrics   Metrics
	logger    Logger
}

// NewDispatcher создает новый диспетчер уведомлений
// metrics может быть nil, если метрики выключены.
func NewDispatcher(publisher Publisher, metrics Metrics, logger Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// SendBookingConfirmation отправляет подтверждение создания клиенту
// Вызывается fire-and-forget после коммита транзакции создания.
func (d *Dispatcher) SendBookingConfirmation(booking *domain.Booking) {
	event := d.newEvent(KeyBookingCreated, booking)
	event.Recipient = customerRecipient(booking)
	go d.publish(event)
}

// SendProviderNotification уведомляет провайдера о новом бронировании
func (d *Dispatcher) SendProviderNotification(booking *domain.Booking) {
	event := d.newEvent(KeyBookingCreated, booking)
	event.Recipient = providerRecipient(booking)
	go d.publish(event)
}

// SendBookingStatusUpdate уведомляет клиента о смене статуса
func (d *Dispatcher) SendBookingStatusUpdate(booking *domain.Booking, oldStatus domain.BookingStatus) {
	event := d.newEvent(KeyBookingStatusChanged, booking)
	event.OldStatus = string(oldStatus)
	event.Recipient = customerRecipient(booking)
	go d.publish(event)
}

// SendBookingReminder отправляет напоминание о предстоящем бронировании
// reminderType: Reminder24h или Reminder2h
func (d *Dispatcher) SendBookingReminder(booking *domain.Booking, reminderType string) {
	event := d.newEvent(KeyBookingReminder, booking)
	event.ReminderType = reminderType
	event.Recipient = customerRecipient(booking)
	go d.publish(event)
}

// newEvent собирает базовое событие из бронирования
func (d *Dispatcher) newEvent(eventType string, b *domain.Booking) BookingEvent {
	return BookingEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		OccurredAt:      time.Now().UTC(),
		BookingID:       b.ID,
		ServiceID:       b.ServiceID,
		ProviderID:      b.ProviderID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		TotalAmount:     b.TotalAmount,
		Status:          string(b.Status),
	}
}

// publish публикует событие с ограниченными повторами
// Работает в отдельной goroutine с собственным таймаутом на попытку;
// контекст запроса сюда не передаётся, чтобы ответ клиенту не ждал брокер.
func (d *Dispatcher) publish(event BookingEvent) {
	var err error

	for attempt := 0; attempt <= publishRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err = d.publisher.PublishJSON(ctx, event.Type, event)
		cancel()

		if err == nil {
			d.observe(event.Type, true)
			d.logger.Info("notifications: published %s event_id=%s booking_id=%d recipient=%s",
				event.Type, event.EventID, event.BookingID, event.Recipient.Kind)
			return
		}
	}

	// Ошибка доставки не влияет на бронирование: только лог и метрика
	d.observe(event.Type, false)
	d.logger.Error("notifications: failed to publish %s event_id=%s booking_id=%d after %d retries: %v",
		event.Type, event.EventID, event.BookingID, publishRetries, err)
}

func (d *Dispatcher) observe(event string, success bool) {
	if d.metrics != nil {
		d.metrics.ObserveEvent(event, success)
	}
}

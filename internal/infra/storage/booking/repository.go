package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/dbmetrics"
	"github.com/uslugi-platform/booking-service/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL при нарушении уникального ограничения
const pgUniqueViolation = "23505"

// slotIndexName имя частичного уникального индекса на слот бронирования
const slotIndexName = "uq_bookings_active_slot"

// bookingColumns полный набор колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"service_id",
	"provider_id",
	"customer_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"booking_date",
	"start_time",
	"duration_minutes",
	"total_amount",
	"status",
	"payment_status",
	"special_requests",
	"reminder_24h_sent",
	"reminder_2h_sent",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
//
// Конфликт слота выявляется частичным уникальным индексом
// (service_id, booking_date, start_time) WHERE status NOT IN ('cancelled', 'no_show')
// и возвращается как ErrSlotTaken. Вставка внутри сериализуемой транзакции
// с предварительной проверкой доступности - основной путь; индекс страхует
// от гонки между двумя параллельными созданиями.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"service_id",
			"provider_id",
			"customer_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"booking_date",
			"start_time",
			"duration_minutes",
			"total_amount",
			"status",
			"payment_status",
			"special_requests",
		).
		Values(
			booking.ServiceID,
			booking.ProviderID,
			booking.CustomerID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.BookingDate,
			booking.StartTime,
			booking.DurationMinutes,
			booking.TotalAmount,
			booking.Status,
			booking.PaymentStatus,
			booking.SpecialRequests,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("booking_date DESC, start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByServiceAndDate получает активные бронирования услуги на дату
// Используется калькулятором доступности и проверкой слота при создании.
// Внутри транзакции добавляет FOR UPDATE, чтобы заблокировать строки
// до вставки нового бронирования.
func (r *Repository) GetActiveByServiceAndDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactive := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactive[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.NotEq{"status": inactive}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByServiceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByServiceAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByProviderWithFilter получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по услуге, периоду, статусу и включению
// неактивных бронирований (отменённых, no-show).
func (r *Repository) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": filter.ProviderID})

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	// Для конкретной даты сортируем по времени начала, иначе сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Условие WHERE status = from защищает от гонки двух акторов: переход,
// провалидированный по устаревшему статусу, не перезапишет более новый
// (в том числе терминальный). 0 затронутых строк - ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// SetPaymentStatus обновляет платёжный статус бронирования
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование, находящееся в статусе from
// Как и UpdateStatus, защищён условием WHERE status = from:
// отмена по устаревшему статусу возвращает ErrStatusConflict.
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// GetStats считает статистику бронирований провайдера за период
// Подсчёт по статусам и сумма totalAmount по завершённым одним запросом.
// Пересчитывается на каждый вызов, без кеширования.
func (r *Repository) GetStats(ctx context.Context, providerID int64, from, to *time.Time) (domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"status",
		"COUNT(*)",
		"COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed'), 0)",
	).
		From("bookings").
		Where(squirrel.Eq{"provider_id": providerID})

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *to})
	}

	query, args, err := selectBuilder.GroupBy("status").ToSql()
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("%w: GetStats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.BookingStats{}, fmt.Errorf("%w: GetStats - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int64)
	var revenue float64

	for rows.Next() {
		var status domain.BookingStatus
		var count int64
		var statusRevenue float64

		if err := rows.Scan(&status, &count, &statusRevenue); err != nil {
			return domain.BookingStats{}, fmt.Errorf("%w: GetStats - scan row: %v", ErrScanRow, err)
		}

		counts[status] = count
		revenue += statusRevenue
	}

	if err := rows.Err(); err != nil {
		return domain.BookingStats{}, fmt.Errorf("%w: GetStats - rows error: %v", ErrScanRow, err)
	}

	return domain.NewBookingStats(counts, revenue), nil
}

// GetDueReminders получает подтверждённые бронирования, по которым пора
// отправить напоминание: начало в интервале [now+fromMinutes, now+toMinutes]
// и флаг ещё не выставлен. Нижняя граница не даёт дальнему окну захватить
// бронирования, которые покрывает ближнее окно.
// Используется фоновым поллером напоминаний.
func (r *Repository) GetDueReminders(ctx context.Context, now time.Time, fromMinutes, toMinutes int, flagColumn string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if flagColumn != "reminder_24h_sent" && flagColumn != "reminder_2h_sent" {
		return nil, fmt.Errorf("%w: GetDueReminders - unknown flag column %q", ErrBuildQuery, flagColumn)
	}

	lower := now.Add(time.Duration(fromMinutes) * time.Minute)
	deadline := now.Add(time.Duration(toMinutes) * time.Minute)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Eq{flagColumn: false}).
		Where(squirrel.Expr(
			"booking_date + start_time BETWEEN ? AND ?",
			lower, deadline,
		)).
		OrderBy("booking_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDueReminders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDueReminders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// MarkReminderSent выставляет флаг отправленного напоминания
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, flagColumn string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if flagColumn != "reminder_24h_sent" && flagColumn != "reminder_2h_sent" {
		return fmt.Errorf("%w: MarkReminderSent - unknown flag column %q", ErrBuildQuery, flagColumn)
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set(flagColumn, true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.ProviderID,
		&booking.CustomerID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.SpecialRequests,
		&booking.Reminder24hSent,
		&booking.Reminder2hSent,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ServiceID,
			&booking.ProviderID,
			&booking.CustomerID,
			&booking.CustomerName,
			&booking.CustomerEmail,
			&booking.CustomerPhone,
			&booking.BookingDate,
			&booking.StartTime,
			&booking.DurationMinutes,
			&booking.TotalAmount,
			&booking.Status,
			&booking.PaymentStatus,
			&booking.SpecialRequests,
			&booking.Reminder24hSent,
			&booking.Reminder2hSent,
			&booking.CancellationReason,
			&booking.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// isSlotConflict проверяет, что ошибка - нарушение уникального индекса слота
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == slotIndexName
	}
	return false
}

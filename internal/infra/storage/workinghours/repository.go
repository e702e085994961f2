package workinghours

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/dbmetrics"
	"github.com/uslugi-platform/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с рабочими часами провайдеров
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProviderID получает все записи рабочих часов провайдера
// Пустой результат - не ошибка: провайдер без расписания работает
// по дефолтному окну 09:00-17:00.
func (r *Repository) GetByProviderID(ctx context.Context, providerID int64) ([]*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"weekday",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.WorkingHours, 0)

	for rows.Next() {
		var wh domain.WorkingHours
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&wh.ID,
			&wh.ProviderID,
			&weekday,
			&wh.StartTime,
			&wh.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByProviderID - scan row: %v", ErrScanRow, err)
		}

		wh.Weekday = time.Weekday(weekday)
		wh.CreatedAt = createdAt.Time
		wh.UpdatedAt = updatedAt.Time

		hours = append(hours, &wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// ReplaceForProvider атомарно заменяет недельное расписание провайдера
// Удаление старых записей и вставка новых в одной транзакции, если она
// передана в контексте; вызывающий сервис оборачивает вызов в txManager.Do.
func (r *Repository) ReplaceForProvider(ctx context.Context, providerID int64, hours []*domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - execute delete: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("working_hours").
		Columns("provider_id", "weekday", "start_time", "end_time")

	for _, wh := range hours {
		insertBuilder = insertBuilder.Values(providerID, int(wh.Weekday), wh.StartTime, wh.EndTime)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceForProvider - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

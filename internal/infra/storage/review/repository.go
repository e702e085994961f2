package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/dbmetrics"
	"github.com/uslugi-platform/booking-service/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Repository репозиторий для работы с отзывами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает отзыв
// Повторный отзыв той же пары (booking, customer) отклоняется
// уникальным индексом и возвращается как ErrDuplicateReview.
func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reviews").
		Columns(
			"booking_id",
			"service_id",
			"customer_id",
			"rating",
			"comment",
		).
		Values(
			review.BookingID,
			review.ServiceID,
			review.CustomerID,
			review.Rating,
			review.Comment,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&review.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	review.CreatedAt = createdAt.Time

	return review, nil
}

// GetByServiceID получает отзывы по услуге, сначала новые
func (r *Repository) GetByServiceID(ctx context.Context, serviceID int64) ([]*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"service_id",
		"customer_id",
		"rating",
		"comment",
		"created_at",
	).
		From("reviews").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)

	for rows.Next() {
		var review domain.Review
		var createdAt sql.NullTime

		err := rows.Scan(
			&review.ID,
			&review.BookingID,
			&review.ServiceID,
			&review.CustomerID,
			&review.Rating,
			&review.Comment,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByServiceID - scan row: %v", ErrScanRow, err)
		}

		review.CreatedAt = createdAt.Time
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - rows error: %v", ErrScanRow, err)
	}

	return reviews, nil
}

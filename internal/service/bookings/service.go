package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/uslugi-platform/booking-service/internal/domain"
	bookingRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	"github.com/uslugi-platform/booking-service/internal/service/bookings/models"
)

// Service сервис для работы с жизненным циклом бронирований
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только его клиент и провайдер услуги
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !s.hasAccess(booking, userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по услуге, периоду, статусу и включению неактивных бронирований
// Доступно только самому провайдеру
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)

	if req.UserID != req.ProviderID {
		s.logger.Warn("GetProviderBookings: access denied for user=%d to provider=%d bookings", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus обновляет статус бронирования
// Доступно клиенту и провайдеру бронирования, что именно разрешено
// актору - определяет таблица переходов. При переводе в completed
// создаётся запись об оплате.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	booking, err := s.getBooking(ctx, bookingID, "UpdateStatus")
	if err != nil {
		return err
	}

	if !s.hasAccess(booking, req.UserID) {
		s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	oldStatus := booking.Status
	if !oldStatus.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
			oldStatus, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldStatus, newStatus)
	}

	if newStatus == domain.StatusCompleted {
		err = s.completeBooking(ctx, booking)
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, bookingID, oldStatus, newStatus)
	}
	if err != nil {
		// Статус изменился между чтением и записью: переход
		// валидировался по устаревшему состоянию
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: concurrent status change for booking id=%d", bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, oldStatus, newStatus)
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: failed to update booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)

	// Уведомление с уже обновлённым статусом
	updated := *booking
	updated.Status = newStatus
	if newStatus == domain.StatusCompleted {
		updated.PaymentStatus = domain.PaymentPaid
	}
	s.notifier.SendBookingStatusUpdate(&updated, oldStatus)

	return nil
}

// Cancel отменяет бронирование
// Доступно клиенту и провайдеру. Повторная отмена уже отменённого
// бронирования не является ошибкой.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if !s.hasAccess(booking, req.UserID) {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	// Идемпотентность: повторная отмена успешна и ничего не меняет
	if booking.IsCancelled() {
		s.logger.Info("Cancel: booking id=%d is already cancelled", bookingID)
		return nil
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, booking.Status, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return s.resolveCancelConflict(ctx, bookingID)
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	oldStatus := booking.Status
	updated := *booking
	updated.Status = domain.StatusCancelled
	if req.CancellationReason != "" {
		reason := req.CancellationReason
		updated.CancellationReason = &reason
	}
	s.notifier.SendBookingStatusUpdate(&updated, oldStatus)

	return nil
}

// GetStats возвращает агрегированную статистику бронирований провайдера
// Доступно только самому провайдеру
func (s *Service) GetStats(ctx context.Context, req *models.GetStatsRequest) (*models.StatsResponse, error) {
	s.logger.Info("GetStats: fetching stats for provider=%d, user=%d", req.ProviderID, req.UserID)

	if req.UserID != req.ProviderID {
		s.logger.Warn("GetStats: access denied for user=%d to provider=%d stats", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("GetStats: invalid period for provider=%d", req.ProviderID)
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	stats, err := s.bookingRepo.GetStats(ctx, req.ProviderID, req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Error("GetStats: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetStats - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStats: provider=%d, total=%d, revenue=%.2f", req.ProviderID, stats.Total, stats.Revenue)
	return models.FromDomainStats(stats), nil
}

// Вспомогательные методы

// completeBooking переводит бронирование в completed и фиксирует оплату
// Запись платежа и смена статусов выполняются в одной транзакции.
func (s *Service) completeBooking(ctx context.Context, booking *domain.Booking) error {
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status, domain.StatusCompleted); err != nil {
			return err
		}

		payment := &domain.Payment{
			BookingID:       booking.ID,
			Amount:          booking.TotalAmount,
			Currency:        domain.DefaultCurrency,
			ProcessorStatus: "succeeded",
		}
		if _, err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		return s.bookingRepo.SetPaymentStatus(txCtx, booking.ID, domain.PaymentPaid)
	})
}

// resolveCancelConflict разбирает конкурентную смену статуса при отмене
// Если бронирование успела отменить другая сторона - это идемпотентный
// успех, любой другой новый статус отменить уже нельзя.
func (s *Service) resolveCancelConflict(ctx context.Context, bookingID int64) error {
	current, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if current.IsCancelled() {
		s.logger.Info("Cancel: booking id=%d was cancelled concurrently", bookingID)
		return nil
	}

	s.logger.Warn("Cancel: booking id=%d changed status concurrently to %s", bookingID, current.Status)
	return ErrCannotCancel
}

// getBooking загружает бронирование и конвертирует ошибку not found
func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// hasAccess проверяет, что пользователь - клиент или провайдер бронирования
func (s *Service) hasAccess(booking *domain.Booking, userID int64) bool {
	return booking.BelongsToCustomer(userID) || booking.ProviderID == userID
}

package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uslugi-platform/booking-service/internal/domain"
	bookingRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/booking"
	serviceRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/service"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	serviceRepo      ServiceRepository
	workingHoursRepo WorkingHoursRepository
	notifier         Notifier
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	workingHoursRepo WorkingHoursRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		serviceRepo:      serviceRepo,
		workingHoursRepo: workingHoursRepo,
		notifier:         notifier,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки за слот,
// страховкой служит частичный уникальный индекс по активным бронированиям.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%d, date=%s, time=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем дату
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Проверяем рабочее окно провайдера на этот день
	hours, err := uc.workingHoursRepo.GetByProviderID(ctx, service.ProviderID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get working hours for provider id=%d: %v", service.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	window := domain.WindowFor(hours, req.Date.Weekday())
	if err := validateWithinWindow(req.StartTime, service.DurationMinutes, window); err != nil {
		uc.logger.Warn("CreateBooking: slot %s rejected: %v", req.StartTime, err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем активные бронирования на дату с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetActiveByServiceAndDate(txCtx, req.ServiceID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 5.2. Проверяем доступность слота
		conflict, err := hasConflict(req.StartTime, service.DurationMinutes, bookings)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check slot conflict: %v", err)
			return fmt.Errorf("%w: failed to check slot conflict: %v", ErrInternal, err)
		}
		if conflict {
			uc.logger.Warn("CreateBooking: slot %s on %s is taken",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotTaken
		}

		// 5.3. Создаем бронирование
		// Стоимость фиксируется на момент создания: последующее изменение
		// цены услуги не влияет на существующие бронирования
		booking := &domain.Booking{
			ServiceID:       service.ID,
			ProviderID:      service.ProviderID,
			CustomerID:      req.CustomerID,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:   req.CustomerPhone,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			TotalAmount:     service.Price,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentUnpaid,
			SpecialRequests: req.SpecialRequests,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot %s on %s taken by concurrent booking",
					req.StartTime, req.Date.Format(domain.DateFormat))
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 6. Уведомления после коммита, в фоне
	uc.notifier.SendBookingConfirmation(result)
	uc.notifier.SendProviderNotification(result)

	return &Response{
		ID:              result.ID,
		ServiceID:       result.ServiceID,
		ProviderID:      result.ProviderID,
		CustomerID:      result.CustomerID,
		CustomerName:    result.CustomerName,
		CustomerEmail:   result.CustomerEmail,
		CustomerPhone:   result.CustomerPhone,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		TotalAmount:     result.TotalAmount,
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		SpecialRequests: result.SpecialRequests,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

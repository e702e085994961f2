package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/uslugi-platform/booking-service/internal/domain"
	servicestorage "github.com/uslugi-platform/booking-service/internal/infra/storage/service"
)

// UseCase рассчитывает доступные слоты для записи на услугу
type UseCase struct {
	bookingRepo      BookingRepository
	serviceRepo      ServiceRepository
	workingHoursRepo WorkingHoursRepository
	timeProvider     TimeProvider
	logger           Logger
}

func New(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	workingHoursRepo WorkingHoursRepository,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		serviceRepo:      serviceRepo,
		workingHoursRepo: workingHoursRepo,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute возвращает список свободных слотов на указанную дату.
// Шаг сетки слотов равен длительности услуги.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	uc.logger.Info("[GetAvailableSlots.Execute] Запрос слотов: serviceID=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация запроса
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("[GetAvailableSlots.Execute] Невалидный запрос: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("[GetAvailableSlots.Execute] Дата в прошлом: %s", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: date %s is in the past", ErrDateInPast, req.Date.Format(domain.DateFormat))
	}

	// 2. Загружаем услугу и проверяем, что она активна
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, servicestorage.ErrServiceNotFound) {
			uc.logger.Warn("[GetAvailableSlots.Execute] Услуга не найдена: serviceID=%d", req.ServiceID)
			return nil, fmt.Errorf("%w: serviceID=%d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("[GetAvailableSlots.Execute] Ошибка получения услуги: %v", err)
		return nil, fmt.Errorf("%w: Execute - get service: %v", ErrInternal, err)
	}

	if !svc.IsActive {
		uc.logger.Warn("[GetAvailableSlots.Execute] Услуга неактивна: serviceID=%d", req.ServiceID)
		return nil, fmt.Errorf("%w: serviceID=%d", ErrServiceInactive, req.ServiceID)
	}

	// 3. Определяем рабочее окно поставщика на этот день недели
	hours, err := uc.workingHoursRepo.GetByProviderID(ctx, svc.ProviderID)
	if err != nil {
		uc.logger.Error("[GetAvailableSlots.Execute] Ошибка получения рабочих часов: %v", err)
		return nil, fmt.Errorf("%w: Execute - get working hours: %v", ErrInternal, err)
	}

	window := domain.WindowFor(hours, req.Date.Weekday())

	// 4. Активные бронирования на дату
	bookings, err := uc.bookingRepo.GetActiveByServiceAndDate(ctx, req.ServiceID, req.Date)
	if err != nil {
		uc.logger.Error("[GetAvailableSlots.Execute] Ошибка получения бронирований: %v", err)
		return nil, fmt.Errorf("%w: Execute - get bookings: %v", ErrInternal, err)
	}

	// 5. Генерируем сетку и вычитаем занятое
	allSlots, err := generateTimeSlots(window, svc.DurationMinutes)
	if err != nil {
		uc.logger.Error("[GetAvailableSlots.Execute] Ошибка генерации слотов: %v", err)
		return nil, fmt.Errorf("%w: Execute - generate slots: %v", ErrInternal, err)
	}

	freeSlots := filterConflicting(allSlots, svc.DurationMinutes, bookings)
	freeSlots = filterPastSlots(freeSlots, req.Date, now)

	uc.logger.Info("[GetAvailableSlots.Execute] Найдено слотов: serviceID=%d, date=%s, total=%d, free=%d",
		req.ServiceID, req.Date.Format(domain.DateFormat), len(allSlots), len(freeSlots))

	return &Response{
		Date:                req.Date,
		ServiceID:           svc.ID,
		ProviderID:          svc.ProviderID,
		SlotDurationMinutes: svc.DurationMinutes,
		Slots:               freeSlots,
	}, nil
}

func validateRequest(req Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

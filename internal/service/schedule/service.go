package schedule

import (
	"context"
	"fmt"

	"github.com/uslugi-platform/booking-service/internal/service/schedule/models"
	"github.com/uslugi-platform/booking-service/pkg/types"
)

// Service сервис для управления расписанием провайдера
type Service struct {
	workingHoursRepo WorkingHoursRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(workingHoursRepo WorkingHoursRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		workingHoursRepo: workingHoursRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetSchedule получает расписание провайдера
// Пустой список означает, что провайдер работает по дефолтному окну
func (s *Service) GetSchedule(ctx context.Context, providerID int64) (*models.ScheduleResponse, error) {
	hours, err := s.workingHoursRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainHours(providerID, hours), nil
}

// UpdateSchedule полностью заменяет расписание провайдера
// Доступно только самому провайдеру. Замена выполняется в транзакции,
// чтобы расчёт слотов никогда не увидел частично заменённое расписание.
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: replacing schedule for provider=%d, days=%d", req.ProviderID, len(req.Hours))

	if req.UserID != req.ProviderID {
		s.logger.Warn("UpdateSchedule: access denied for user=%d to provider=%d schedule", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if err := validateSchedule(req); err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	hours := req.ToDomainHours()

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.workingHoursRepo.ReplaceForProvider(txCtx, req.ProviderID, hours)
	})
	if err != nil {
		s.logger.Error("UpdateSchedule: failed to replace schedule for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: successfully replaced schedule for provider=%d", req.ProviderID)
	return models.FromDomainHours(req.ProviderID, hours), nil
}

// validateSchedule проверяет дни недели, формат времени и порядок start < end
func validateSchedule(req *models.UpdateScheduleRequest) error {
	seen := make(map[int]bool, len(req.Hours))

	for _, dh := range req.Hours {
		if dh.Weekday < 0 || dh.Weekday > 6 {
			return fmt.Errorf("%w: weekday %d is out of range", ErrInvalidInput, dh.Weekday)
		}
		if seen[dh.Weekday] {
			return fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, dh.Weekday)
		}
		seen[dh.Weekday] = true

		start := types.TimeString(dh.StartTime)
		if err := start.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime for weekday %d: %v", ErrInvalidInput, dh.Weekday, err)
		}

		end := types.TimeString(dh.EndTime)
		if err := end.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime for weekday %d: %v", ErrInvalidInput, dh.Weekday, err)
		}

		if !start.IsBefore(end) {
			return fmt.Errorf("%w: startTime must be before endTime for weekday %d", ErrInvalidInput, dh.Weekday)
		}
	}

	return nil
}

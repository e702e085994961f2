package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uslugi-platform/booking-service/internal/domain"
	serviceRepo "github.com/uslugi-platform/booking-service/internal/infra/storage/service"
	"github.com/uslugi-platform/booking-service/internal/service/catalog/models"
)

// Service сервис для управления каталогом услуг провайдера
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create публикует новую услугу
// Провайдером становится сам пользователь, создающий услугу
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for provider=%d", req.Name, req.UserID)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	svc := &domain.Service{
		ProviderID:      req.UserID,
		Name:            strings.TrimSpace(req.Name),
		Category:        strings.TrimSpace(req.Category),
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainService(svc), nil
}

// GetProviderServices получает услуги провайдера
// activeOnly скрывает деактивированные услуги
func (s *Service) GetProviderServices(ctx context.Context, providerID int64, activeOnly bool) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.GetByProviderID(ctx, providerID, activeOnly)
	if err != nil {
		s.logger.Error("GetProviderServices: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProviderServices - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(services), nil
}

// Update частично обновляет услугу
// Доступно только провайдеру-владельцу. Деактивация выполняется
// этим же методом через поле isActive.
func (s *Service) Update(ctx context.Context, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d by user=%d", serviceID, req.UserID)

	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", serviceID, err)
		return nil, err
	}

	existing, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if existing.ProviderID != req.UserID {
		s.logger.Warn("Update: access denied for user=%d to service id=%d", req.UserID, serviceID)
		return nil, ErrAccessDenied
	}

	updated, err := s.serviceRepo.Update(ctx, serviceID, req.ToDomainUpdate())
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated service id=%d", serviceID)
	return models.FromDomainService(updated), nil
}

func validateCreateRequest(req *models.CreateServiceRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	return validateDuration(req.DurationMinutes)
}

func validateUpdateRequest(req *models.UpdateServiceRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		if len(name) > domain.MaxServiceNameLength {
			return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
		}
	}

	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		return validateDuration(*req.DurationMinutes)
	}

	return nil
}

func validateDuration(minutes int) error {
	if minutes < domain.MinServiceDurationMinutes || minutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	return nil
}

package models

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	UserID          int64   `json:"userId"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// UpdateServiceRequest частичное обновление услуги, nil-поля не изменяются
type UpdateServiceRequest struct {
	UserID          int64    `json:"userId"`
	Name            *string  `json:"name,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// ToDomainUpdate конвертирует request в domain модель обновления
func (r *UpdateServiceRequest) ToDomainUpdate() domain.ServiceUpdate {
	return domain.ServiceUpdate{
		Name:            r.Name,
		Category:        r.Category,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		IsActive:        r.IsActive,
	}
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64     `json:"id"`
	ProviderID      int64     `json:"providerId"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		Name:            s.Name,
		Category:        s.Category,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}
	for _, svc := range services {
		if dto := FromDomainService(svc); dto != nil {
			resp.Services = append(resp.Services, *dto)
		}
	}
	return resp
}

package domain

import "time"

// Service represents an offering published by a provider
type Service struct {
	ID              int64
	ProviderID      int64
	Name            string
	Category        string
	Price           float64
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if new bookings can be created for this service
func (s *Service) IsBookable() bool {
	return s.IsActive
}

// ServiceUpdate частичное обновление услуги
// nil-поля не изменяются.
type ServiceUpdate struct {
	Name            *string
	Category        *string
	Price           *float64
	DurationMinutes *int
	IsActive        *bool
}

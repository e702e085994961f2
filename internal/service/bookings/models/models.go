package models

import (
	"errors"
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	UserID          int64      `json:"userId"`
	ProviderID      int64      `json:"providerId"`
	ServiceID       *int64     `json:"serviceId,omitempty"`       // Фильтр по услуге (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и no-show
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		ServiceID:       r.ServiceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// GetStatsRequest запрос статистики бронирований провайдера
type GetStatsRequest struct {
	UserID     int64      `json:"userId"`
	ProviderID int64      `json:"providerId"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64 `json:"id"`
	ServiceID  int64 `json:"serviceId"`
	ProviderID int64 `json:"providerId"`

	CustomerID    *int64  `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`

	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	TotalAmount     float64 `json:"totalAmount"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`

	SpecialRequests *string `json:"specialRequests,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatsResponse агрегированная статистика бронирований провайдера
type StatsResponse struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"byStatus"`
	Revenue        float64          `json:"revenue"`
	ConversionRate float64          `json:"conversionRate"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ServiceID:          b.ServiceID,
		ProviderID:         b.ProviderID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// FromDomainStats конвертирует domain статистику в DTO
// Статусы без бронирований попадают в ответ с нулевым счётчиком.
func FromDomainStats(stats domain.BookingStats) *StatsResponse {
	byStatus := make(map[string]int64, len(domain.AllBookingStatuses))
	for _, status := range domain.AllBookingStatuses {
		byStatus[string(status)] = 0
	}
	for status, count := range stats.CountsByStatus {
		byStatus[string(status)] = count
	}

	return &StatsResponse{
		Total:          stats.Total,
		ByStatus:       byStatus,
		Revenue:        stats.Revenue,
		ConversionRate: stats.ConversionRate,
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, err := domain.ParseBookingStatus(status)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}

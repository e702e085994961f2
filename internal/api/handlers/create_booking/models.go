package create_booking

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	createBooking "github.com/uslugi-platform/booking-service/internal/usecase/create_booking"
	"github.com/uslugi-platform/booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID       int64   `json:"serviceId"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	ServiceID       int64   `json:"serviceId"`
	ProviderID      int64   `json:"providerId"`
	CustomerID      *int64  `json:"customerId,omitempty"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalAmount     float64 `json:"totalAmount"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// customerID nil для гостевых бронирований.
func (r *CreateBookingRequest) ToUseCaseRequest(customerID *int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ServiceID:       r.ServiceID,
		CustomerID:      customerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Date:            bookingDate,
		StartTime:       startTime,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ServiceID:       resp.ServiceID,
		ProviderID:      resp.ProviderID,
		CustomerID:      resp.CustomerID,
		CustomerName:    resp.CustomerName,
		CustomerEmail:   resp.CustomerEmail,
		CustomerPhone:   resp.CustomerPhone,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		TotalAmount:     resp.TotalAmount,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		SpecialRequests: resp.SpecialRequests,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}

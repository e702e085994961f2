package create_booking

import (
	"time"

	"github.com/uslugi-platform/booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID int64 // ID услуги

	// CustomerID nil для гостевых бронирований
	CustomerID    *int64
	CustomerName  string  // Имя клиента
	CustomerEmail string  // Email клиента
	CustomerPhone *string // Телефон (опционально)

	Date      time.Time        // Дата бронирования (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")

	SpecialRequests *string // Пожелания клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64 // ID созданного бронирования
	ServiceID  int64 // ID услуги
	ProviderID int64 // ID провайдера

	CustomerID    *int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string

	BookingDate     time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	TotalAmount     float64          // Стоимость (цена услуги на момент создания)
	Status          string           // Статус бронирования
	PaymentStatus   string           // Статус оплаты

	SpecialRequests *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

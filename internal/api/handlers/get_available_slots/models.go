package get_available_slots

import (
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	getAvailableSlots "github.com/uslugi-platform/booking-service/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date                string   `json:"date"`
	ServiceID           int64    `json:"serviceId"`
	ProviderID          int64    `json:"providerId"`
	SlotDurationMinutes int      `json:"slotDurationMinutes"`
	Slots               []string `json:"slots"`
}

// ToUseCaseRequest парсит дату и собирает запрос use case
func ToUseCaseRequest(serviceID int64, dateStr string) (getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return getAvailableSlots.Request{}, err
	}

	return getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, slot.String())
	}

	return &SlotsResponse{
		Date:                resp.Date.Format(domain.DateFormat),
		ServiceID:           resp.ServiceID,
		ProviderID:          resp.ProviderID,
		SlotDurationMinutes: resp.SlotDurationMinutes,
		Slots:               slots,
	}
}

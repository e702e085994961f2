package get_available_slots

import (
	"time"

	"github.com/uslugi-platform/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                time.Time          // Дата, на которую запрашивались слоты
	ServiceID           int64              // ID услуги
	ProviderID          int64              // ID провайдера
	SlotDurationMinutes int                // Длительность слота (равна длительности услуги)
	Slots               []types.TimeString // Свободные слоты в порядке возрастания времени
}

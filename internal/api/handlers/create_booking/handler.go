package create_booking

import (
	"errors"
	"net/http"

	"github.com/uslugi-platform/booking-service/internal/api/handlers"
	"github.com/uslugi-platform/booking-service/internal/api/middleware"
	createBooking "github.com/uslugi-platform/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для бронирования"
	msgInvalidDate        = "некорректная дата бронирования"
	msgProviderClosed     = "провайдер не работает в выбранную дату"
	msgOutsideHours       = "слот выходит за рабочие часы"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Маршрут публичный: гости бронируют без аутентификации, у
// зарегистрированных клиентов ID берётся из контекста, если он есть.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var customerID *int64
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		customerID = &userID
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: service_id=%d, date=%s, time=%s",
				req.ServiceID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: service_id=%d, date=%s", req.ServiceID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrProviderClosed):
			h.logger.Warn("POST /bookings - Provider closed: service_id=%d, date=%s", req.ServiceID, req.BookingDate)
			handlers.RespondBadRequest(w, msgProviderClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: service_id=%d, time=%s", req.ServiceID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, service_id=%d",
		result.ID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

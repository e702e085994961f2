package get_booking_stats

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/uslugi-platform/booking-service/internal/api/handlers"
	"github.com/uslugi-platform/booking-service/internal/api/middleware"
	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/internal/service/bookings"
	"github.com/uslugi-platform/booking-service/internal/service/bookings/models"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidPeriod     = "некорректный период, ожидается YYYY-MM-DD"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/bookings/stats
// Query params: startDate, endDate (опциональны, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookings/stats - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/bookings/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetStatsRequest{
		UserID:     userID,
		ProviderID: providerID,
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/bookings/stats - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.StartDate = &startDate
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/bookings/stats - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.EndDate = &endDate
	}

	result, err := h.service.GetStats(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /providers/{id}/bookings/stats - Access denied: provider_id=%d, user_id=%d",
				providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/bookings/stats - Invalid period: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /providers/{id}/bookings/stats - Failed to get stats: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/bookings/stats - Stats retrieved successfully: provider_id=%d, total=%d",
		providerID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

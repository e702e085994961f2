package get_service_reviews

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uslugi-platform/booking-service/internal/api/handlers"
)

const msgInvalidServiceID = "некорректный ID услуги"

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/reviews - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.GetServiceReviews(r.Context(), serviceID)
	if err != nil {
		h.logger.Error("GET /services/{id}/reviews - Failed to get reviews: service_id=%d, error=%v",
			serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /services/{id}/reviews - Reviews retrieved successfully: service_id=%d, count=%d",
		serviceID, len(result.Reviews))
	handlers.RespondJSON(w, http.StatusOK, result)
}

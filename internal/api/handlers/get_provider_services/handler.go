package get_provider_services

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uslugi-platform/booking-service/internal/api/handlers"
	"github.com/uslugi-platform/booking-service/internal/api/middleware"
)

const msgInvalidProviderID = "некорректный ID провайдера"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/services
// Публичный каталог показывает только активные услуги, сам провайдер
// видит и деактивированные.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/services - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, authenticated := middleware.GetUserID(r.Context())
	activeOnly := !(authenticated && userID == providerID)

	result, err := h.service.GetProviderServices(r.Context(), providerID, activeOnly)
	if err != nil {
		h.logger.Error("GET /providers/{id}/services - Failed to get services: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/services - Services retrieved successfully: provider_id=%d, count=%d",
		providerID, len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}

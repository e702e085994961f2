package create_service

import (
	"errors"
	"net/http"

	"github.com/uslugi-platform/booking-service/internal/api/handlers"
	"github.com/uslugi-platform/booking-service/internal/api/middleware"
	"github.com/uslugi-platform/booking-service/internal/service/catalog"
	"github.com/uslugi-platform/booking-service/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные услуги"
)

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

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

// Handle POST /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /services - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq := &models.CreateServiceRequest{
		UserID:          userID,
		Name:            req.Name,
		Category:        req.Category,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			h.logger.Warn("POST /services - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /services - Failed to create service: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /services - Service created successfully: service_id=%d, provider_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

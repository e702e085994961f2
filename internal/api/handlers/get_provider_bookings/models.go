package get_provider_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/internal/service/bookings/models"
)

// ParseQuery собирает запрос сервиса из query параметров
// Поддерживаются serviceId, startDate, endDate, status, includeInactive.
func ParseQuery(providerID, userID int64, query url.Values) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		UserID:     userID,
		ProviderID: providerID,
	}

	if raw := query.Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

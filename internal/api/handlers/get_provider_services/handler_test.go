package get_provider_services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uslugi-platform/booking-service/internal/api/middleware"
	"github.com/uslugi-platform/booking-service/internal/service/catalog/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeCatalogService struct {
	response       *models.ServiceListResponse
	err            error
	lastActiveOnly *bool
}

func (f *fakeCatalogService) GetProviderServices(_ context.Context, _ int64, activeOnly bool) (*models.ServiceListResponse, error) {
	f.lastActiveOnly = &activeOnly
	return f.response, f.err
}

func doRequest(h *Handler, providerID string, userID *int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/"+providerID+"/services", nil)
	req = mux.SetURLVars(req, map[string]string{"providerId": providerID})
	if userID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_PublicSeesActiveOnly(t *testing.T) {
	svc := &fakeCatalogService{response: &models.ServiceListResponse{
		Services: []models.ServiceResponse{{ID: 1, IsActive: true}},
	}}
	h := NewHandler(svc, nopLogger{})

	rec := doRequest(h, "42", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastActiveOnly)
	assert.True(t, *svc.lastActiveOnly)

	var resp models.ServiceListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Services, 1)
}

func TestHandle_OwnerSeesInactive(t *testing.T) {
	svc := &fakeCatalogService{response: &models.ServiceListResponse{Services: []models.ServiceResponse{}}}
	h := NewHandler(svc, nopLogger{})

	owner := int64(42)
	rec := doRequest(h, "42", &owner)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastActiveOnly)
	assert.False(t, *svc.lastActiveOnly)
}

func TestHandle_OtherUserSeesActiveOnly(t *testing.T) {
	svc := &fakeCatalogService{response: &models.ServiceListResponse{Services: []models.ServiceResponse{}}}
	h := NewHandler(svc, nopLogger{})

	stranger := int64(99)
	rec := doRequest(h, "42", &stranger)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastActiveOnly)
	assert.True(t, *svc.lastActiveOnly)
}

func TestHandle_InvalidID(t *testing.T) {
	h := NewHandler(&fakeCatalogService{}, nopLogger{})

	rec := doRequest(h, "abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

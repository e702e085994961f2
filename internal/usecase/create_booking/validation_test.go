package create_booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/uslugi-platform/booking-service/internal/domain"
	"github.com/uslugi-platform/booking-service/pkg/ptr"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr bool
	}{
		{
			name:   "valid registered customer",
			mutate: func(*Request) {},
		},
		{
			name:   "valid guest",
			mutate: func(req *Request) { req.CustomerID = nil },
		},
		{
			name:    "zero serviceID",
			mutate:  func(req *Request) { req.ServiceID = 0 },
			wantErr: true,
		},
		{
			name:    "negative customerID",
			mutate:  func(req *Request) { req.CustomerID = ptr.Ptr[int64](-1) },
			wantErr: true,
		},
		{
			name:    "empty name",
			mutate:  func(req *Request) { req.CustomerName = "   " },
			wantErr: true,
		},
		{
			name:    "name too long",
			mutate:  func(req *Request) { req.CustomerName = strings.Repeat("a", domain.MaxCustomerNameLength+1) },
			wantErr: true,
		},
		{
			name:    "empty email",
			mutate:  func(req *Request) { req.CustomerEmail = "" },
			wantErr: true,
		},
		{
			name:    "email without at",
			mutate:  func(req *Request) { req.CustomerEmail = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "email without domain dot",
			mutate:  func(req *Request) { req.CustomerEmail = "user@localhost" },
			wantErr: true,
		},
		{
			name:    "zero date",
			mutate:  func(req *Request) { req.Date = time.Time{} },
			wantErr: true,
		},
		{
			name:    "empty startTime",
			mutate:  func(req *Request) { req.StartTime = "" },
			wantErr: true,
		},
		{
			name:    "malformed startTime",
			mutate:  func(req *Request) { req.StartTime = "25:99" },
			wantErr: true,
		},
		{
			name: "specialRequests too long",
			mutate: func(req *Request) {
				req.SpecialRequests = ptr.Ptr(strings.Repeat("x", domain.MaxSpecialRequestsLength+1))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t)
			tt.mutate(req)

			err := validateRequest(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateWithinWindow(t *testing.T) {
	window := domain.DayWindow{
		IsOpen:    true,
		StartTime: mustTime(t, "09:00"),
		EndTime:   mustTime(t, "17:00"),
	}

	assert.NoError(t, validateWithinWindow(mustTime(t, "09:00"), 60, window))
	assert.NoError(t, validateWithinWindow(mustTime(t, "16:00"), 60, window))

	assert.ErrorIs(t, validateWithinWindow(mustTime(t, "08:00"), 60, window), ErrOutsideWorkingHours)
	assert.ErrorIs(t, validateWithinWindow(mustTime(t, "16:30"), 60, window), ErrOutsideWorkingHours)
	assert.ErrorIs(t, validateWithinWindow(mustTime(t, "10:00"), 60, domain.DayWindow{IsOpen: false}), ErrProviderClosed)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uslugi-platform/booking-service/pkg/ptr"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to in_progress", StatusPending, StatusInProgress, false},
		{"confirmed to in_progress", StatusConfirmed, StatusInProgress, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, false},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"in_progress to no_show", StatusInProgress, StatusNoShow, true},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, true},
		{"in_progress to pending", StatusInProgress, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"no_show is terminal", StatusNoShow, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, BookingStatus("bogus").IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseBookingStatus("unknown")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = ParseBookingStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBooking_IsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).IsActive())
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
	assert.True(t, (&Booking{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusNoShow}).IsActive())
}

func TestBooking_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusInProgress}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())
}

func TestBooking_BelongsToCustomer(t *testing.T) {
	registered := &Booking{CustomerID: ptr.Ptr(int64(42))}
	assert.True(t, registered.BelongsToCustomer(42))
	assert.False(t, registered.BelongsToCustomer(99))
	assert.False(t, registered.IsGuest())

	guest := &Booking{CustomerID: nil}
	assert.False(t, guest.BelongsToCustomer(42))
	assert.True(t, guest.IsGuest())
}

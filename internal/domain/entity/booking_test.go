package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusInProgress, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusInProgress, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusInProgress, BookingStatusCompleted, true},
		{BookingStatusInProgress, BookingStatusCancelled, true},
		{BookingStatusInProgress, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		// refunded is owned by the refund flow, never a request target
		{BookingStatusRefunded, BookingStatusConfirmed, false},
		{BookingStatusPending, BookingStatusRefunded, false},
	}

	for _, tt := range tests {
		booking := &Booking{Status: tt.from}
		assert.Equal(t, tt.allowed, booking.CanTransitionTo(tt.to),
			"transition %s -> %s", tt.from, tt.to)
	}
}

func TestIsFinal(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).IsFinal())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).IsFinal())
	assert.False(t, (&Booking{Status: BookingStatusInProgress}).IsFinal())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).IsFinal())
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).IsFinal())
}

func TestBelongsTo(t *testing.T) {
	devoteeID := uuid.New()
	poojariID := uuid.New()
	booking := &Booking{UserID: devoteeID, PoojariID: poojariID}

	assert.True(t, booking.BelongsTo(devoteeID))
	assert.True(t, booking.BelongsTo(poojariID))
	assert.False(t, booking.BelongsTo(uuid.New()))
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldLapsed(t *testing.T) {
	now := time.Date(2026, time.March, 3, 18, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingHeld, HoldExpiresAt: now.Add(10 * time.Minute)}

	assert.False(t, b.HoldLapsed(now))
	assert.False(t, b.HoldLapsed(now.Add(10*time.Minute-time.Second)))
	// Expiry instant itself counts as lapsed.
	assert.True(t, b.HoldLapsed(now.Add(10*time.Minute)))
	assert.True(t, b.HoldLapsed(now.Add(time.Hour)))

	// Only held bookings lapse.
	b.Status = BookingConfirmed
	assert.False(t, b.HoldLapsed(now.Add(time.Hour)))
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingPending.Terminal())
	assert.False(t, BookingHeld.Terminal())
	assert.True(t, BookingConfirmed.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingExpired.Terminal())
}

func TestTimeSlotOverlapsHalfOpen(t *testing.T) {
	start := time.Date(2026, time.March, 3, 18, 0, 0, 0, time.UTC)
	slot := TimeSlot{Start: start, End: start.Add(30 * time.Minute)}

	assert.True(t, slot.Overlaps(start.Add(15*time.Minute), start.Add(45*time.Minute)))
	assert.True(t, slot.Overlaps(start.Add(-15*time.Minute), start.Add(15*time.Minute)))
	// Touching endpoints do not overlap.
	assert.False(t, slot.Overlaps(start.Add(30*time.Minute), start.Add(time.Hour)))
	assert.False(t, slot.Overlaps(start.Add(-time.Hour), start))
}

package bookingRepo

import (
	"context"
	"errors"
	"time"

	"bookflow/models"
)

// ErrSlotTaken is returned by InsertHold when another held or confirmed
// booking already references the slot. It is how a lost race surfaces.
var ErrSlotTaken = errors.New("slotTaken")

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("bookingNotFound")

// BookingRepository is the closed set of typed operations the lifecycle
// manager performs against the booking store. Every state-changing method is
// conditional on the expected current status, so a webhook retry racing a
// cancellation cannot double-apply a transition.
type BookingRepository interface {
	// InsertHold creates a held booking if and only if no other active
	// (held or confirmed) booking references the same slot start.
	InsertHold(ctx context.Context, b *models.Booking) error

	FindByID(ctx context.Context, userID, bookingID string) (*models.Booking, error)

	// FindActiveInWindow lists held/confirmed bookings whose slot intersects
	// [from, to).
	FindActiveInWindow(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	// FindExpiredHeld lists held bookings with hold_expires_at <= now.
	FindExpiredHeld(ctx context.Context, now time.Time) ([]models.Booking, error)

	// SetPaymentLink records the checkout link on a fresh hold.
	SetPaymentLink(ctx context.Context, bookingID, link string, now time.Time) (*models.Booking, error)

	// Confirm transitions held -> confirmed with payment completed.
	Confirm(ctx context.Context, bookingID, transactionID string, now time.Time) (*models.Booking, error)

	// AnnotateCalendar records the calendar-event outcome on a confirmed
	// booking: the event link, attendee-invite trouble, or a failed event
	// write. Best-effort: the confirmation stands either way.
	AnnotateCalendar(ctx context.Context, bookingID, eventLink, attendeesWarning, calendarWarning string, now time.Time) (*models.Booking, error)

	// ReleaseHold transitions held -> pending with payment failed, freeing
	// the slot immediately.
	ReleaseHold(ctx context.Context, bookingID, reason string, now time.Time) (*models.Booking, error)

	// Cancel transitions any non-terminal booking of the user -> cancelled.
	Cancel(ctx context.Context, userID, bookingID string, now time.Time) (*models.Booking, error)

	// MarkExpired transitions held -> expired when the hold has lapsed.
	// Returns false when another writer got there first.
	MarkExpired(ctx context.Context, bookingID string, now time.Time) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

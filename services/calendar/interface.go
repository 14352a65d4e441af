package calendar

import (
	"context"
	"errors"
	"time"

	"bookflow/models"
)

// ErrSourceUnavailable signals the calendar backend could not be reached or
// answered with a transport-level failure. Callers must treat it as "try
// again shortly" — never as an empty busy set.
var ErrSourceUnavailable = errors.New("sourceUnavailable")

// ErrAttendeeInviteFailed is reported when an event was created but the
// attendee invites were refused by the server. It is warning-grade: the
// event exists and the returned EventRef is valid.
var ErrAttendeeInviteFailed = errors.New("attendeeInviteFailed")

// EventRef identifies a created calendar event.
type EventRef struct {
	ID   string `json:"id"`
	Link string `json:"link,omitempty"`
}

// Source is the capability interface over the owner's calendar. The booking
// engine only ever needs the busy view and event creation.
type Source interface {
	// ListBusyIntervals returns every occupied interval intersecting
	// [from, to). Intervals may overlap; callers merge them.
	ListBusyIntervals(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error)

	// CreateEvent writes the confirmed consultation into the calendar. When
	// the server refuses attendee invites the event is retried without them
	// and the returned error wraps ErrAttendeeInviteFailed while the EventRef
	// is still valid.
	CreateEvent(ctx context.Context, slot models.TimeSlot, summary, description string, attendees []string) (EventRef, error)
}

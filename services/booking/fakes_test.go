package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "bookflow/database/repository/booking"
	"bookflow/models"
	"bookflow/services/calendar"
)

// memBookingRepo is an in-memory BookingRepository with the same conditional
// transition semantics as the Mongo implementation, guarded by one mutex so
// concurrent holds race exactly like they do against the unique index.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	findErr  error // injected FindByID store failure
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func active(s models.BookingStatus) bool {
	return s == models.BookingHeld || s == models.BookingConfirmed
}

func clone(b *models.Booking) *models.Booking {
	cp := *b
	return &cp
}

func (r *memBookingRepo) InsertHold(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.bookings {
		if active(other.Status) && other.SelectedSlot.Start.Equal(b.SelectedSlot.Start) {
			return bookingRepo.ErrSlotTaken
		}
	}
	r.bookings[b.ID] = clone(b)
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	b, ok := r.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, bookingRepo.ErrNotFound
	}
	return clone(b), nil
}

func (r *memBookingRepo) FindActiveInWindow(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if active(b.Status) && b.SelectedSlot.Overlaps(from, to) {
			out = append(out, *clone(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindExpiredHeld(ctx context.Context, now time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingHeld && !b.HoldExpiresAt.After(now) {
			out = append(out, *clone(b))
		}
	}
	return out, nil
}

func (r *memBookingRepo) SetPaymentLink(ctx context.Context, bookingID, link string, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingHeld {
		return nil, bookingRepo.ErrNotFound
	}
	b.PaymentLink = link
	b.UpdatedAt = now
	return clone(b), nil
}

func (r *memBookingRepo) Confirm(ctx context.Context, bookingID, transactionID string, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingHeld {
		return nil, bookingRepo.ErrNotFound
	}
	b.Status = models.BookingConfirmed
	b.PaymentStatus = models.PaymentCompleted
	b.TransactionID = transactionID
	b.UpdatedAt = now
	return clone(b), nil
}

func (r *memBookingRepo) AnnotateCalendar(ctx context.Context, bookingID, eventLink, attendeesWarning, calendarWarning string, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingConfirmed {
		return nil, bookingRepo.ErrNotFound
	}
	b.CalendarEventLink = eventLink
	b.AttendeesWarning = attendeesWarning
	b.CalendarWarning = calendarWarning
	b.UpdatedAt = now
	return clone(b), nil
}

func (r *memBookingRepo) ReleaseHold(ctx context.Context, bookingID, reason string, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingHeld {
		return nil, bookingRepo.ErrNotFound
	}
	b.Status = models.BookingPending
	b.PaymentStatus = models.PaymentFailed
	b.FailureReason = reason
	b.UpdatedAt = now
	return clone(b), nil
}

func (r *memBookingRepo) Cancel(ctx context.Context, userID, bookingID string, now time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.UserID != userID || b.Status.Terminal() {
		return nil, bookingRepo.ErrNotFound
	}
	b.Status = models.BookingCancelled
	b.UpdatedAt = now
	return clone(b), nil
}

func (r *memBookingRepo) MarkExpired(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != models.BookingHeld || b.HoldExpiresAt.After(now) {
		return false, nil
	}
	b.Status = models.BookingExpired
	b.UpdatedAt = now
	return true, nil
}

func (r *memBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *clone(b))
		}
	}
	return out, nil
}

// stubCalendar is a scriptable calendar source.
type stubCalendar struct {
	mu           sync.Mutex
	busy         []models.BusyInterval
	listErr      error
	createErr    error
	attendeeFail bool
	created      []models.TimeSlot
}

func (c *stubCalendar) ListBusyIntervals(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []models.BusyInterval
	for _, b := range c.busy {
		if b.Start.Before(to) && from.Before(b.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *stubCalendar) CreateEvent(ctx context.Context, slot models.TimeSlot, summary, description string, attendees []string) (calendar.EventRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return calendar.EventRef{}, c.createErr
	}
	c.created = append(c.created, slot)
	ref := calendar.EventRef{ID: fmt.Sprintf("evt-%d", len(c.created)), Link: fmt.Sprintf("/calendars/owner/evt-%d.ics", len(c.created))}
	if c.attendeeFail && len(attendees) > 0 {
		return ref, fmt.Errorf("%w: invites not delivered to %d attendee(s)", calendar.ErrAttendeeInviteFailed, len(attendees))
	}
	return ref, nil
}

// stubPayments hands out deterministic payment links.
type stubPayments struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *stubPayments) CreatePaymentLink(ctx context.Context, b *models.Booking) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.calls++
	return "https://pay.example.com/" + b.ID, nil
}

package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingRepo "bookflow/database/repository/booking"
	"bookflow/models"
	"bookflow/services/availability"
	"bookflow/services/calendar"
	"bookflow/utils"
)

// SlotLocker serializes the lazy-expire-then-insert section of CreateHold
// per slot. The store's conditional insert remains the correctness
// backstop; the lock only prevents wasted interleavings.
type SlotLocker interface {
	// Lock acquires the named lock or fails fast when it is already taken.
	// The returned func releases it.
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// DefaultBookingService is the production lifecycle manager.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	Calendar   calendar.Source
	Payments   PaymentProvider
	Locks      SlotLocker
	Rules      availability.Rules
	HoldTTL    time.Duration
	OwnerEmail string

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GenerateSlots computes bookable slots against live busy intervals plus all
// active bookings. A held booking whose hold has lapsed counts as free even
// before the sweep persists the expiry.
func (s *DefaultBookingService) GenerateSlots(ctx context.Context, from, to time.Time) ([]models.DayAvailability, error) {
	logger := utils.GetLogger()

	busy, err := s.Calendar.ListBusyIntervals(ctx, from, to)
	if err != nil {
		// Never degrade to an empty busy set; that would advertise slots we
		// cannot verify.
		return nil, err
	}

	active, err := s.Repo.FindActiveInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	now := s.now()
	for _, b := range active {
		if b.HoldLapsed(now) {
			continue
		}
		busy = append(busy, models.BusyInterval{Start: b.SelectedSlot.Start, End: b.SelectedSlot.End})
	}

	days, err := availability.Generate(s.Rules, from, to, now, busy)
	if err != nil {
		return nil, err
	}

	logger.Debug("generated availability",
		zap.Time("from", from), zap.Time("to", to),
		zap.Int("busyIntervals", len(busy)), zap.Int("days", len(days)))
	return days, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	return s.Repo.FindByID(ctx, userID, bookingID)
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Repo.ListByUser(ctx, userID)
}

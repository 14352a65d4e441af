package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "bookflow/database/repository/booking"
	"bookflow/models"
	"bookflow/services/availability"
	"bookflow/utils"
)

// DefaultHoldTTL is how long a hold reserves its slot while payment is
// pending.
const DefaultHoldTTL = 10 * time.Minute

// CreateHold reserves a slot for the requester. The slot is re-checked
// against live calendar busy intervals and active bookings at call time;
// the store's conditional insert decides any remaining race, so exactly one
// of two concurrent callers wins and the other sees ErrSlotUnavailable.
func (s *DefaultBookingService) CreateHold(ctx context.Context, req CreateHoldRequest) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	// Only slots the rules can generate are holdable; a misaligned start
	// with the right duration would straddle two generated slots.
	slot := req.Slot
	if !s.Rules.Allows(slot) {
		return nil, ErrInvalidSlot
	}
	if slot.Start.Before(now) {
		return nil, ErrSlotUnavailable
	}

	if s.Locks != nil {
		release, err := s.Locks.Lock(ctx, "slot:"+slot.Start.UTC().Format(time.RFC3339), 10*time.Second)
		if err != nil {
			return nil, ErrSlotUnavailable
		}
		defer release()
	}

	// Live overlap re-check against the calendar.
	busy, err := s.Calendar.ListBusyIntervals(ctx, slot.Start, slot.End)
	if err != nil {
		return nil, err
	}
	for _, b := range availability.Merge(busy) {
		if slot.Overlaps(b.Start, b.End) {
			return nil, ErrSlotUnavailable
		}
	}

	// Overlap re-check against every active booking, not just an exact
	// slot-start match. Lazy expiry: an expired-but-unswept hold does not
	// block a new hold, but it must be expired first to free the unique
	// index.
	overlapping, err := s.Repo.FindActiveInWindow(ctx, slot.Start, slot.End)
	if err != nil {
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}
	for _, existing := range overlapping {
		if !existing.HoldLapsed(now) {
			return nil, ErrSlotUnavailable
		}
		if _, err := s.Repo.MarkExpired(ctx, existing.ID, now); err != nil {
			return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
		}
		logger.Info("lazily expired stale hold", zap.String("bookingID", existing.ID))
	}

	holdTTL := s.HoldTTL
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}

	b := &models.Booking{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		SessionID:         req.SessionID,
		Email:             req.Email,
		DiscussionSummary: req.DiscussionSummary,
		SelectedSlot:      slot,
		Status:            models.BookingHeld,
		PaymentStatus:     models.PaymentPending,
		HoldExpiresAt:     now.Add(holdTTL),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.Repo.InsertHold(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	// The checkout session is created only for a won slot, so losing the
	// insert race never leaves an orphaned session at the gateway.
	if s.Payments != nil {
		link, payErr := s.Payments.CreatePaymentLink(ctx, b)
		if payErr != nil {
			if _, relErr := s.Repo.ReleaseHold(ctx, b.ID, "payment link creation failed", now); relErr != nil {
				logger.Error("failed to release hold after payment link failure",
					zap.String("bookingID", b.ID), zap.Error(relErr))
			}
			return nil, fmt.Errorf("%w: payment gateway: %v", ErrSourceUnavailable, payErr)
		}
		updated, err := s.Repo.SetPaymentLink(ctx, b.ID, link, now)
		if err != nil {
			return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
		}
		b = updated
	}

	logger.Info("hold created",
		zap.String("bookingID", b.ID),
		zap.String("userID", b.UserID),
		zap.Time("slotStart", slot.Start),
		zap.Time("holdExpiresAt", b.HoldExpiresAt))
	return b, nil
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	bookingRepo "bookflow/database/repository/booking"
	"bookflow/models"
	"bookflow/services/calendar"
	"bookflow/utils"
)

// ConfirmPayment lands a successful gateway callback. Only a live hold may
// confirm; the payment is recorded first and the calendar event is created
// afterwards — a downstream calendar quirk never rolls back a completed
// payment, it is stored as attendees_warning instead.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, event models.PaymentEvent) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	b, err := s.Repo.FindByID(ctx, event.UserID, event.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	// Webhook deliveries retry; a repeated confirmation is a no-op.
	if b.Status == models.BookingConfirmed {
		return b, nil
	}
	if b.Status == models.BookingExpired || b.HoldLapsed(now) {
		if b.Status == models.BookingHeld {
			if _, err := s.Repo.MarkExpired(ctx, b.ID, now); err != nil {
				logger.Error("failed to persist lazy expiry", zap.String("bookingID", b.ID), zap.Error(err))
			}
		}
		return nil, ErrHoldExpired
	}
	if b.Status != models.BookingHeld {
		return nil, ErrInvalidTransition
	}

	confirmed, err := s.Repo.Confirm(ctx, b.ID, event.TransactionID, now)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// Lost a race with the sweep between the check and the update.
			return nil, ErrHoldExpired
		}
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	summary := confirmed.DiscussionSummary
	if summary == "" {
		summary = "Consultation"
	}
	eventLink, attendeesWarning, calendarWarning := "", "", ""
	ref, err := s.Calendar.CreateEvent(ctx, confirmed.SelectedSlot, summary,
		fmt.Sprintf("Booked consultation for %s", confirmed.Email), []string{confirmed.Email})
	switch {
	case err == nil:
		eventLink = ref.Link
	case errors.Is(err, calendar.ErrAttendeeInviteFailed):
		eventLink = ref.Link
		attendeesWarning = err.Error()
		logger.Warn("attendee invite failed on confirmed booking", zap.String("bookingID", confirmed.ID), zap.Error(err))
	default:
		calendarWarning = "calendar event could not be created"
		logger.Error("calendar event creation failed", zap.String("bookingID", confirmed.ID), zap.Error(err))
	}

	annotated, annErr := s.Repo.AnnotateCalendar(ctx, confirmed.ID, eventLink, attendeesWarning, calendarWarning, now)
	if annErr != nil {
		logger.Error("failed to annotate calendar outcome", zap.String("bookingID", confirmed.ID), zap.Error(annErr))
		return confirmed, nil
	}

	logger.Info("booking confirmed",
		zap.String("bookingID", annotated.ID),
		zap.String("transactionID", event.TransactionID),
		zap.String("eventLink", eventLink))
	return annotated, nil
}

// RejectPayment lands a failed gateway callback: the hold is released and
// the slot becomes free immediately, without waiting for hold_expires_at.
func (s *DefaultBookingService) RejectPayment(ctx context.Context, event models.PaymentEvent) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	b, err := s.Repo.FindByID(ctx, event.UserID, event.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	// Retried rejection is a no-op.
	if b.Status == models.BookingPending && b.PaymentStatus == models.PaymentFailed {
		return b, nil
	}
	if b.Status != models.BookingHeld {
		return nil, ErrInvalidTransition
	}

	reason := event.Reason
	if reason == "" {
		reason = "payment failed"
	}
	released, err := s.Repo.ReleaseHold(ctx, b.ID, reason, now)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	logger.Info("hold released after failed payment",
		zap.String("bookingID", released.ID), zap.String("reason", reason))
	return released, nil
}

// CancelBooking applies an explicit user cancellation to a non-terminal
// booking.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	cancelled, err := s.Repo.Cancel(ctx, userID, bookingID, s.now())
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			// Either no such booking or it is already terminal.
			if _, findErr := s.Repo.FindByID(ctx, userID, bookingID); findErr == nil {
				return nil, ErrInvalidTransition
			}
			return nil, err
		}
		return nil, fmt.Errorf("%w: booking store: %v", ErrSourceUnavailable, err)
	}

	utils.GetLogger().Info("booking cancelled", zap.String("bookingID", bookingID), zap.String("userID", userID))
	return cancelled, nil
}

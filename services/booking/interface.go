package booking

import (
	"context"
	"time"

	"bookflow/models"
)

// CreateHoldRequest carries everything needed to place a hold. UserID and
// SessionID arrive as explicit arguments from the conversational layer;
// nothing is pulled from ambient session state.
type CreateHoldRequest struct {
	UserID            string          `json:"user_id" binding:"required"`
	SessionID         string          `json:"session_id"`
	Email             string          `json:"email" binding:"required,email"`
	Slot              models.TimeSlot `json:"slot" binding:"required"`
	DiscussionSummary string          `json:"discussion_summary"`
}

// BookingService is the narrow boundary the conversational layer and the
// payment webhook call into. Booking state is never manipulated elsewhere.
type BookingService interface {
	// GenerateSlots computes the bookable slots in [from, to), grouped by
	// day, against live calendar busy intervals and active holds.
	GenerateSlots(ctx context.Context, from, to time.Time) ([]models.DayAvailability, error)

	// CreateHold reserves a slot and issues a payment link.
	CreateHold(ctx context.Context, req CreateHoldRequest) (*models.Booking, error)

	// ConfirmPayment and RejectPayment are the landing points for the
	// payment gateway's asynchronous callback.
	ConfirmPayment(ctx context.Context, event models.PaymentEvent) (*models.Booking, error)
	RejectPayment(ctx context.Context, event models.PaymentEvent) (*models.Booking, error)

	// CancelBooking is the explicit user/owner cancellation.
	CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)

	// SweepExpiredHolds expires every lapsed hold. Idempotent; lazy expiry
	// in the readers makes this cleanup, not a correctness dependency.
	SweepExpiredHolds(ctx context.Context, now time.Time) ([]models.Booking, error)

	GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

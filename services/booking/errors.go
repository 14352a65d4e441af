package booking

import (
	"fmt"

	"bookflow/services/availability"
	"bookflow/services/calendar"
)

// BookingError carries a stable machine-readable code alongside the message.
// SlotUnavailable and HoldExpired are expected business outcomes, not
// exceptional failures; callers match them with errors.Is and react without
// exception-driven control flow.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrSlotUnavailable: the slot was taken between generation and hold
	// creation. Non-retryable for that slot; the caller must re-query.
	ErrSlotUnavailable = &BookingError{Code: "slotUnavailable", Message: "the selected slot is no longer available"}

	// ErrHoldExpired: the hold lapsed before payment arrived. Terminal for
	// this booking attempt; the caller must restart.
	ErrHoldExpired = &BookingError{Code: "holdExpired", Message: "the payment hold has expired"}

	// ErrInvalidSlot: malformed or rule-violating slot in a hold request.
	ErrInvalidSlot = &BookingError{Code: "invalidSlot", Message: "the requested slot is not a valid bookable slot"}

	// ErrInvalidTransition: the booking is not in a state that permits the
	// requested operation.
	ErrInvalidTransition = &BookingError{Code: "invalidTransition", Message: "the booking state does not permit this operation"}
)

// Re-exported collaborator errors so callers depend on one taxonomy.
var (
	ErrSourceUnavailable = calendar.ErrSourceUnavailable
	ErrInvalidWindow     = availability.ErrInvalidWindow
)

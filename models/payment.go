package models

// PaymentEventStatus is the outcome reported by the payment gateway.
type PaymentEventStatus string

const (
	PaymentEventSuccess PaymentEventStatus = "success"
	PaymentEventFailed  PaymentEventStatus = "failed"
)

// PaymentEvent is the normalized payload of one gateway webhook delivery.
// The webhook handler translates vendor events into this shape before the
// lifecycle manager sees them.
type PaymentEvent struct {
	BookingID     string             `json:"booking_id"`
	UserID        string             `json:"user_id"`
	Status        PaymentEventStatus `json:"status"`
	TransactionID string             `json:"transaction_id"`
	Reason        string             `json:"reason,omitempty"`
}

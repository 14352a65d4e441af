package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingHeld      BookingStatus = "held"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// Terminal reports whether no further transitions are allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingCancelled || s == BookingExpired
}

// PaymentStatus tracks the payment side of a booking.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Booking represents one requested consultation. It is mutated only by the
// lifecycle manager and the payment webhook; the conversational layer never
// touches it directly.
type Booking struct {
	ID                string        `bson:"id" json:"id"`
	UserID            string        `bson:"user_id" json:"user_id"`
	SessionID         string        `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Email             string        `bson:"email" json:"email"`
	DiscussionSummary string        `bson:"discussion_summary" json:"discussion_summary"`
	SelectedSlot      TimeSlot      `bson:"selected_slot" json:"selected_slot"`
	Status            BookingStatus `bson:"status" json:"status"`
	PaymentStatus     PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentLink       string        `bson:"payment_link,omitempty" json:"payment_link,omitempty"`
	TransactionID     string        `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	HoldExpiresAt     time.Time     `bson:"hold_expires_at,omitempty" json:"hold_expires_at,omitempty"` // meaningful while status=held
	FailureReason     string        `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	CalendarEventLink string        `bson:"calendar_event_link,omitempty" json:"calendar_event_link,omitempty"`
	AttendeesWarning  string        `bson:"attendees_warning,omitempty" json:"attendees_warning,omitempty"`
	CalendarWarning   string        `bson:"calendar_warning,omitempty" json:"calendar_warning,omitempty"`
	CreatedAt         time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updated_at"`
}

// HoldLapsed reports whether a held booking's hold has lapsed at the given
// instant. Expired-but-unswept holds are treated as releasable by every
// reader, so the sweep is cleanup rather than a correctness dependency.
func (b *Booking) HoldLapsed(now time.Time) bool {
	return b.Status == BookingHeld && !b.HoldExpiresAt.After(now)
}

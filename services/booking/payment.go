package booking

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"bookflow/models"
)

// PaymentProvider issues the payment link that accompanies a fresh hold.
// The asynchronous outcome comes back through the gateway webhook, not
// through this interface.
type PaymentProvider interface {
	CreatePaymentLink(ctx context.Context, b *models.Booking) (string, error)
}

// StripeCheckoutProvider creates a Stripe Checkout session per hold. The
// booking and user IDs travel in the session metadata so the webhook can
// route the result back to the right booking.
type StripeCheckoutProvider struct {
	SessionPrice int64 // smallest currency unit
	Currency     string
	SuccessURL   string
	CancelURL    string
}

func (p *StripeCheckoutProvider) CreatePaymentLink(ctx context.Context, b *models.Booking) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.SessionPrice),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Consultation session"),
						Description: stripe.String(fmt.Sprintf("%s – %s",
							b.SelectedSlot.Start.Format("Mon, Jan 2 2006 15:04"),
							b.SelectedSlot.End.Format("15:04 MST"))),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(b.Email),
		SuccessURL:    stripe.String(p.SuccessURL),
		CancelURL:     stripe.String(p.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", b.ID)
	params.AddMetadata("user_id", b.UserID)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

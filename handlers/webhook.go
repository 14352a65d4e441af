package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"bookflow/config"
	"bookflow/models"
	"bookflow/services/booking"
	"bookflow/utils"
)

// PaymentWebhookHandler is the landing point for the payment gateway's
// asynchronous callbacks. It verifies the signature, normalizes the vendor
// event into a models.PaymentEvent, and hands it to the lifecycle manager —
// the only component allowed to transition booking state.
type PaymentWebhookHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewPaymentWebhookHandler(svc booking.BookingService, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{Service: svc, Logger: logger}
}

// HandleStripeWebhook processes checkout completion and failure events.
// Responses are 2xx even for business-level rejections (expired hold, lost
// race) so the gateway stops retrying; only transport/signature problems get
// error statuses.
func (h *PaymentWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidPayload", "could not read webhook body")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalidSignature", "webhook signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		h.applyOutcome(c, event, models.PaymentEventSuccess)
	case "checkout.session.async_payment_failed", "checkout.session.expired":
		h.applyOutcome(c, event, models.PaymentEventFailed)
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (h *PaymentWebhookHandler) applyOutcome(c *gin.Context, event stripe.Event, outcome models.PaymentEventStatus) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidPayload", "could not parse checkout session")
		return
	}

	pe := models.PaymentEvent{
		BookingID:     sess.Metadata["booking_id"],
		UserID:        sess.Metadata["user_id"],
		Status:        outcome,
		TransactionID: sess.ID,
	}
	if pe.BookingID == "" || pe.UserID == "" {
		h.Logger.Warn("webhook session without booking metadata", zap.String("sessionID", sess.ID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var b *models.Booking
	var err error
	if outcome == models.PaymentEventSuccess {
		b, err = h.Service.ConfirmPayment(c.Request.Context(), pe)
	} else {
		pe.Reason = string(event.Type)
		b, err = h.Service.RejectPayment(c.Request.Context(), pe)
	}
	if err != nil {
		// Business outcomes (expired hold, wrong state) are final for this
		// delivery; acknowledge so the gateway does not retry forever.
		h.Logger.Warn("payment outcome not applied",
			zap.String("bookingID", pe.BookingID),
			zap.String("outcome", string(outcome)),
			zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"received": true, "applied": false, "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "applied": true, "status": b.Status})
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookflow/config"
	bookingRepo "bookflow/database/repository/booking"
	"bookflow/services/booking"
	"bookflow/utils"
)

// BookingHandler exposes the booking engine to the conversational layer.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// respondBookingError maps the engine's error taxonomy onto HTTP statuses.
func respondBookingError(c *gin.Context, err error) {
	var be *booking.BookingError
	switch {
	case errors.Is(err, booking.ErrInvalidWindow):
		utils.JSONError(c, http.StatusBadRequest, "invalidWindow", err.Error())
	case errors.Is(err, bookingRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "bookingNotFound", "booking not found")
	case errors.Is(err, booking.ErrSourceUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "sourceUnavailable", "a backing service is unavailable, try again shortly")
	case errors.As(err, &be):
		switch be {
		case booking.ErrSlotUnavailable:
			utils.JSONError(c, http.StatusConflict, be.Code, be.Message)
		case booking.ErrHoldExpired:
			utils.JSONError(c, http.StatusGone, be.Code, be.Message)
		case booking.ErrInvalidSlot:
			utils.JSONError(c, http.StatusBadRequest, be.Code, be.Message)
		default:
			utils.JSONError(c, http.StatusConflict, be.Code, be.Message)
		}
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// GetAvailableSlots returns day-grouped open slots. Optional from/to are
// RFC 3339; the window defaults to the configured number of weeks ahead.
func (h *BookingHandler) GetAvailableSlots(c *gin.Context) {
	now := time.Now()
	from, to := now, now.AddDate(0, 0, 7*config.AppConfig.BookingWindowWeeks)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalidWindow", "from must be RFC 3339")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalidWindow", "to must be RFC 3339")
			return
		}
		to = t
	}

	days, err := h.Service.GenerateSlots(c.Request.Context(), from, to)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// CreateHold places a hold on a slot and returns the booking with its
// payment link.
func (h *BookingHandler) CreateHold(c *gin.Context) {
	var req booking.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}

	b, err := h.Service.CreateHold(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking returns one booking of the requesting user.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", "user_id is required")
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings returns all bookings of the requesting user.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", "user_id is required")
		return
	}

	bs, err := h.Service.ListBookings(c.Request.Context(), userID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bs})
}

// CancelBooking applies an explicit cancellation.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}

	b, err := h.Service.CancelBooking(c.Request.Context(), req.UserID, c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

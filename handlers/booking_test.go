package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "bookflow/database/repository/booking"
	"bookflow/models"
	"bookflow/services/booking"
)

// scriptedService returns canned results so the handler's status mapping can
// be exercised without a real engine.
type scriptedService struct {
	booking.BookingService

	days    []models.DayAvailability
	booking *models.Booking
	err     error
}

func (s *scriptedService) GenerateSlots(ctx context.Context, from, to time.Time) ([]models.DayAvailability, error) {
	return s.days, s.err
}

func (s *scriptedService) CreateHold(ctx context.Context, req booking.CreateHoldRequest) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *scriptedService) GetBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *scriptedService) CancelBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	return s.booking, s.err
}

func newTestRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookingHandler(svc, zap.NewNop())
	r.GET("/api/booking/slots", h.GetAvailableSlots)
	r.POST("/api/booking/hold", h.CreateHold)
	r.GET("/api/booking/:id", h.GetBooking)
	r.POST("/api/booking/:id/cancel", h.CancelBooking)
	return r
}

func holdBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	start := time.Date(2026, time.March, 3, 18, 0, 0, 0, time.UTC)
	body, err := json.Marshal(gin.H{
		"user_id": "user-1",
		"email":   "alice@example.com",
		"slot":    models.TimeSlot{Start: start, End: start.Add(30 * time.Minute)},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateHoldStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"slot unavailable", booking.ErrSlotUnavailable, http.StatusConflict, "slotUnavailable"},
		{"hold expired", booking.ErrHoldExpired, http.StatusGone, "holdExpired"},
		{"invalid slot", booking.ErrInvalidSlot, http.StatusBadRequest, "invalidSlot"},
		{"source down", fmt.Errorf("%w: calendar timeout", booking.ErrSourceUnavailable), http.StatusServiceUnavailable, "sourceUnavailable"},
		{"invalid window", fmt.Errorf("%w: bad range", booking.ErrInvalidWindow), http.StatusBadRequest, "invalidWindow"},
		{"not found", bookingRepo.ErrNotFound, http.StatusNotFound, "bookingNotFound"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&scriptedService{err: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/booking/hold", holdBody(t))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			var resp struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestCreateHoldSuccess(t *testing.T) {
	b := &models.Booking{ID: "b-1", UserID: "user-1", Status: models.BookingHeld, PaymentLink: "https://pay.example.com/b-1"}
	r := newTestRouter(&scriptedService{booking: b})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/booking/hold", holdBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "b-1", got.ID)
	assert.Equal(t, "https://pay.example.com/b-1", got.PaymentLink)
}

func TestCreateHoldRejectsMissingFields(t *testing.T) {
	r := newTestRouter(&scriptedService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/booking/hold", bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailableSlotsWindowParsing(t *testing.T) {
	r := newTestRouter(&scriptedService{days: []models.DayAvailability{{Date: "2026-03-03"}}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/booking/slots?from=2026-03-02T00:00:00Z&to=2026-03-23T00:00:00Z", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/booking/slots?from=yesterday", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingRequiresUserID(t *testing.T) {
	r := newTestRouter(&scriptedService{booking: &models.Booking{ID: "b-1"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/booking/b-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/booking/b-1?user_id=user-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookflow/handlers"
)

// RegisterRoutes wires every endpoint of the booking engine.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, wh *handlers.PaymentWebhookHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)

	booking := r.Group("/api/booking")
	{
		booking.GET("/slots", bh.GetAvailableSlots)
		booking.POST("/hold", bh.CreateHold)
		booking.GET("", bh.ListBookings)
		booking.GET("/:id", bh.GetBooking)
		booking.POST("/:id/cancel", bh.CancelBooking)
	}

	payments := r.Group("/api/payments")
	{
		payments.POST("/webhook", wh.HandleStripeWebhook)
	}
}

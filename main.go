// File: bookflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookflow/config"
	"bookflow/cron"
	"bookflow/database"
	bookingRepo "bookflow/database/repository/booking"
	"bookflow/handlers"
	"bookflow/middleware"
	"bookflow/routes"
	"bookflow/services/availability"
	"bookflow/services/booking"
	"bookflow/services/calendar"
	"bookflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func buildRules() availability.Rules {
	logger := utils.GetLogger()

	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid timezone %q: %v", config.AppConfig.Timezone, err)
	}
	weekdays, err := availability.ParseWeekdays(config.AppConfig.AllowedWeekdays)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid ALLOWED_WEEKDAYS: %v", err)
	}
	start, err := availability.ParseClock(config.AppConfig.DayWindowStart)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid DAY_WINDOW_START: %v", err)
	}
	end, err := availability.ParseClock(config.AppConfig.DayWindowEnd)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid DAY_WINDOW_END: %v", err)
	}

	rules := availability.Rules{
		SlotDuration:    time.Duration(config.AppConfig.SlotMinutes) * time.Minute,
		AllowedWeekdays: weekdays,
		DayWindowStart:  start,
		DayWindowEnd:    end,
		Location:        loc,
	}
	if err := rules.Validate(); err != nil {
		logger.Sugar().Fatalf("main: invalid availability rules: %v", err)
	}
	return rules
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookRepo := bookingRepo.NewMongoBookingRepo()

	// services.
	calendarSource := calendar.NewCalDAVSource(
		config.AppConfig.CalDAVURL,
		config.AppConfig.CalDAVUsername,
		config.AppConfig.CalDAVPassword,
		config.AppConfig.CalDAVPath,
		logger,
	)
	paymentProvider := &booking.StripeCheckoutProvider{
		SessionPrice: config.AppConfig.SessionPrice,
		Currency:     config.AppConfig.Currency,
		SuccessURL:   config.AppConfig.PaymentSuccessURL,
		CancelURL:    config.AppConfig.PaymentCancelURL,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:       bookRepo,
		Calendar:   calendarSource,
		Payments:   paymentProvider,
		Locks:      &utils.RedisSlotLock{Client: utils.GetLockClient()},
		Rules:      buildRules(),
		HoldTTL:    time.Duration(config.AppConfig.HoldTTLMinutes) * time.Minute,
		OwnerEmail: config.AppConfig.OwnerEmail,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	webhookHandler := handlers.NewPaymentWebhookHandler(bookingService, logger)

	routes.RegisterRoutes(router, bookingHandler, webhookHandler)

	// Background sweep of lapsed holds.
	cron.InitSweepWorker(bookingService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

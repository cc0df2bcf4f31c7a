package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventbooking/config"
	"eventbooking/internal/adapters/auth"
	"eventbooking/internal/adapters/email"
	deliveryhttp "eventbooking/internal/delivery/http"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/repository/postgres"
	"eventbooking/internal/services"
)

// @title Event Booking API
// @version 1.0
// @description Event and booking management API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			logger.Error("invalid configuration", "err", "JWT_SECRET is not set")
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET not set, using insecure development secret")
		cfg.JWTSecret = "insecure-dev-secret"
	}

	// The connection target is validated above; the actual connection is
	// made lazily on first acquire and shared by everything below.
	manager := postgres.NewManager(cfg.DBUrl, nil, logger)
	defer manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := manager.Acquire(ctx); err != nil {
		// Not fatal: the manager retries on the next acquire, so a database
		// that is still starting up does not take the process down.
		logger.Warn("initial database connection failed", "err", err)
	}
	cancel()

	eventRepo := postgres.NewEventRepository(manager)
	bookingRepo := postgres.NewBookingRepository(manager)

	eventService := services.NewEventService(eventRepo, cfg.RequestTimeout)
	bookingService := services.NewBookingService(bookingRepo, eventRepo, cfg.RequestTimeout)

	mailer, err := email.NewMailer(cfg.Mail)
	if err != nil {
		logger.Error("mailer init failed", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	_, verifier := auth.NewJWTCodec(cfg.JWTSecret)

	eventController := controllers.NewEventController(logger, eventService)
	bookingController := controllers.NewBookingController(logger, bookingService, eventService, emailService)

	mux := deliveryhttp.NewRouter(logger, manager, verifier, eventController, bookingController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}

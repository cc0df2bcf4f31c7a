package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "eventbooking/docs"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
	"eventbooking/internal/repository/postgres"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	manager *postgres.Manager,
	verifier domain.TokenVerifier,
	events *controllers.EventController,
	bookings *controllers.BookingController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Public reads and booking
	mux.HandleFunc("GET /api/events", events.ListEvents)
	mux.HandleFunc("GET /api/events/{slug}", events.GetEventBySlug)
	mux.HandleFunc("POST /api/events/{eventID}/bookings", bookings.CreateBooking)

	// Admin
	mux.HandleFunc("POST /api/events", requireAuth(events.CreateEvent))
	mux.HandleFunc("PUT /api/events/{eventID}", requireAuth(events.UpdateEvent))
	mux.HandleFunc("GET /api/events/{eventID}/bookings", requireAuth(bookings.ListBookings))
	mux.HandleFunc("PUT /api/bookings/{bookingID}", requireAuth(bookings.UpdateBooking))

	mux.HandleFunc("GET /api/healthz", healthz(manager))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// healthz reports liveness and verifies the shared database handle can be
// acquired within a short deadline.
func healthz(manager *postgres.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := manager.Acquire(ctx); err != nil {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "database unavailable")
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

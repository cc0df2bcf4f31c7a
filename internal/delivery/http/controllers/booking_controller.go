package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// CreateBookingRequest is the request body for POST /api/events/{eventID}/bookings.
type CreateBookingRequest struct {
	Email string `json:"email"`
}

// UpdateBookingRequest is the request body for PUT /api/bookings/{bookingID}.
// A changed event_id re-triggers the existence check; an email-only change
// does not.
type UpdateBookingRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

type BookingController struct {
	Logger   *slog.Logger
	Bookings domain.BookingService
	Events   domain.EventService
	Email    domain.EmailService
}

func NewBookingController(logger *slog.Logger, bookings domain.BookingService, events domain.EventService, email domain.EmailService) *BookingController {
	return &BookingController{
		Logger:   logger,
		Bookings: bookings,
		Events:   events,
		Email:    email,
	}
}

// CreateBooking godoc
// @Summary Book a spot for an event
// @Description Normalizes the email, checks its shape, verifies the referenced event exists, and persists the booking. A confirmation email is sent best-effort.
// @Tags bookings
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param booking body CreateBookingRequest true "Booking payload"
// @Success 201 {object} helpers.APIResponse "data contains the created booking"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed or dangling_reference"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /api/events/{eventID}/bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Bookings.Create(r.Context(), domain.BookingInput{EventID: eventID, Email: req.Email})
	if err != nil {
		c.logFailure(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	c.sendConfirmation(r, booking)
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// UpdateBooking godoc
// @Summary Update a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID"
// @Param booking body UpdateBookingRequest true "Booking payload"
// @Success 200 {object} helpers.APIResponse "data contains the updated booking"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed or dangling_reference"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/bookings/{bookingID} [put]
func (c *BookingController) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := r.PathValue("bookingID")
	if bookingID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing bookingID")
		return
	}
	var req UpdateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Bookings.Update(r.Context(), bookingID, domain.BookingInput{EventID: req.EventID, Email: req.Email})
	if err != nil {
		c.logFailure(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// ListBookings godoc
// @Summary List bookings for an event
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the bookings"
// @Router /api/events/{eventID}/bookings [get]
func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	bookings, err := c.Bookings.ListByEventID(r.Context(), eventID)
	if err != nil {
		c.logFailure(r, err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// sendConfirmation sends the booking confirmation email. Failures are logged
// and never fail the booking.
func (c *BookingController) sendConfirmation(r *http.Request, booking *domain.Booking) {
	if c.Email == nil {
		return
	}
	event, err := c.Events.GetByID(r.Context(), booking.EventID)
	if err != nil {
		// The check-then-write window means the event may be gone already.
		if !errors.Is(err, domain.ErrNotFound) {
			c.Logger.WarnContext(r.Context(), "confirmation email skipped", "booking_id", booking.ID, "err", err)
		}
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Venue:      event.Venue,
	}
	if err := c.Email.SendBookingConfirmation(r.Context(), data); err != nil {
		c.Logger.WarnContext(r.Context(), "confirmation email failed", "booking_id", booking.ID, "err", err)
	}
}

func (c *BookingController) logFailure(r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}

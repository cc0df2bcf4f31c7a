package domain

import (
	"context"
	"time"
)

// Booking represents a registration of an email address for an event.
// EventID is checked against the event store when the booking is created or
// when the reference changes; it is not a continuously enforced foreign key,
// so the referenced event may be deleted later without invalidating the
// booking.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingInput carries the writable fields of a booking as submitted by a
// caller, before normalization.
type BookingInput struct {
	EventID string
	Email   string
}

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	Update(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

// BookingService defines the business logic for bookings. ValidateAndNormalize
// is the pipeline entry point; Create and Update run the pipeline and then
// delegate the write to the repository.
type BookingService interface {
	ValidateAndNormalize(ctx context.Context, prev *Booking, in BookingInput) (*Booking, error)
	Create(ctx context.Context, in BookingInput) (*Booking, error)
	Update(ctx context.Context, id string, in BookingInput) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

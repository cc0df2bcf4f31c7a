package domain

import (
	"context"
	"time"
)

// EventMode describes how an event is held.
type EventMode string

const (
	EventModeOnline  EventMode = "online"
	EventModeOffline EventMode = "offline"
	EventModeHybrid  EventMode = "hybrid"
)

// Valid reports whether m is one of the enumerated modes.
func (m EventMode) Valid() bool {
	switch m {
	case EventModeOnline, EventModeOffline, EventModeHybrid:
		return true
	}
	return false
}

// Event represents a bookable event.
// Date is stored as YYYY-MM-DD and Time as 24-hour HH:MM; both are
// canonicalized by the event pipeline before the record is persisted.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        EventMode `json:"mode"`
	Audience    string    `json:"audience"`
	Organizer   string    `json:"organizer"`
	Agenda      []string  `json:"agenda"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventInput carries the writable fields of an event as submitted by a
// caller, before normalization.
type EventInput struct {
	Title       string
	Description string
	Overview    string
	Image       string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Organizer   string
	Agenda      []string
	Tags        []string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// EventExistenceChecker is the narrow capability the booking pipeline
// depends on: a point-in-time existence lookup of an event.
type EventExistenceChecker interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// EventService defines the business logic for events. ValidateAndNormalize
// is the pipeline entry point; Create and Update run the pipeline and then
// delegate the write to the repository.
type EventService interface {
	ValidateAndNormalize(prev *Event, in EventInput) (*Event, error)
	Create(ctx context.Context, in EventInput) (*Event, error)
	Update(ctx context.Context, id string, in EventInput) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
}

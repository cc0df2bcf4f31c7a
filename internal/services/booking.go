package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventbooking/internal/domain"
)

// Loose shape check on purpose: localpart@domainpart.tld with no whitespace
// and no second @. Tightening this to full RFC grammar would reject addresses
// the application has always accepted.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	events         domain.EventExistenceChecker
	contextTimeout time.Duration
}

// NewBookingService returns the booking validation/normalization pipeline.
// events is the statically-typed existence-check capability for the
// referential integrity check; passing nil leaves the pipeline in a
// not-ready state where any check fails with ErrEventStoreNotReady.
func NewBookingService(bookingRepo domain.BookingRepository, events domain.EventExistenceChecker, timeout time.Duration) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		events:         events,
		contextTimeout: timeout,
	}
}

// ValidateAndNormalize turns a raw booking payload into a persist-ready
// Booking. prev is the stored record for updates, or nil on create. The
// event existence check runs only on create or when the event reference
// changes; an email-only change does not re-check. The check reads current
// existence at the instant it runs and is not fenced against a concurrent
// event deletion.
func (s *bookingService) ValidateAndNormalize(ctx context.Context, prev *domain.Booking, in domain.BookingInput) (*domain.Booking, error) {
	now := time.Now()
	out := &domain.Booking{CreatedAt: now}
	if prev != nil {
		copied := *prev
		out = &copied
	}
	out.UpdatedAt = now

	out.EventID = strings.TrimSpace(in.EventID)
	out.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if out.EventID == "" {
		return nil, domain.NewValidationError("event_id", domain.RuleRequired)
	}
	if out.Email == "" {
		return nil, domain.NewValidationError("email", domain.RuleRequired)
	}
	if !emailShape.MatchString(out.Email) {
		return nil, domain.NewValidationError("email", domain.RuleInvalidEmail)
	}

	if prev == nil || out.EventID != prev.EventID {
		if s.events == nil {
			return nil, domain.ErrEventStoreNotReady
		}
		exists, err := s.events.ExistsByID(ctx, out.EventID)
		if err != nil {
			return nil, fmt.Errorf("check event exists: %w", err)
		}
		if !exists {
			return nil, &domain.DanglingReferenceError{EventID: out.EventID}
		}
	}

	return out, nil
}

func (s *bookingService) Create(ctx context.Context, in domain.BookingInput) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := s.ValidateAndNormalize(ctx, nil, in)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) Update(ctx context.Context, id string, in domain.BookingInput) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	booking, err := s.ValidateAndNormalize(ctx, prev, in)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

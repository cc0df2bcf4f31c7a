package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventbooking/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService returns the event validation/normalization pipeline backed
// by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// ValidateAndNormalize turns a raw event payload into a persist-ready Event.
// prev is the stored record for updates, or nil on create; derivations
// (slug, date, time) run only for fields that are new or changed relative to
// prev. It performs no storage writes.
func (s *eventService) ValidateAndNormalize(prev *domain.Event, in domain.EventInput) (*domain.Event, error) {
	now := time.Now()
	out := &domain.Event{CreatedAt: now}
	if prev != nil {
		copied := *prev
		out = &copied
	}
	out.UpdatedAt = now

	out.Title = strings.TrimSpace(in.Title)
	out.Description = strings.TrimSpace(in.Description)
	out.Overview = strings.TrimSpace(in.Overview)
	out.Image = strings.TrimSpace(in.Image)
	out.Venue = strings.TrimSpace(in.Venue)
	out.Location = strings.TrimSpace(in.Location)
	out.Audience = strings.TrimSpace(in.Audience)
	out.Organizer = strings.TrimSpace(in.Organizer)
	out.Mode = domain.EventMode(strings.TrimSpace(in.Mode))
	out.Agenda = trimAll(in.Agenda)
	out.Tags = trimAll(in.Tags)

	required := []struct {
		field string
		value string
	}{
		{"title", out.Title},
		{"description", out.Description},
		{"overview", out.Overview},
		{"image", out.Image},
		{"venue", out.Venue},
		{"location", out.Location},
		{"audience", out.Audience},
		{"organizer", out.Organizer},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, domain.NewValidationError(r.field, domain.RuleRequired)
		}
	}
	if out.Mode == "" {
		return nil, domain.NewValidationError("mode", domain.RuleRequired)
	}
	if !out.Mode.Valid() {
		return nil, domain.NewValidationError("mode", domain.RuleInvalidEnum)
	}
	if len(out.Agenda) == 0 {
		return nil, domain.NewValidationError("agenda", domain.RuleEmptyCollection)
	}
	if len(out.Tags) == 0 {
		return nil, domain.NewValidationError("tags", domain.RuleEmptyCollection)
	}

	if prev == nil || out.Title != prev.Title {
		out.Slug = DeriveSlug(out.Title)
	}

	date := strings.TrimSpace(in.Date)
	if prev == nil || date != prev.Date {
		normalized, err := NormalizeDate(date)
		if err != nil {
			return nil, err
		}
		out.Date = normalized
	}

	clock := strings.TrimSpace(in.Time)
	if prev == nil || clock != prev.Time {
		normalized, err := NormalizeTime(clock)
		if err != nil {
			return nil, err
		}
		out.Time = normalized
	}

	return out, nil
}

func (s *eventService) Create(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ValidateAndNormalize(nil, in)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	event, err := s.ValidateAndNormalize(prev, in)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetBySlug(ctx, slug)
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

var (
	slugStrip   = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// DeriveSlug derives the URL-safe identifier from an event title: lowercase,
// trim, strip everything but word characters, whitespace, and hyphens, then
// collapse whitespace and hyphen runs into single hyphens and trim hyphens
// from both ends. The empty string is a legal result for titles made of
// punctuation only; uniqueness is enforced by the storage layer, not here.
func DeriveSlug(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Date layouts accepted by NormalizeDate, tried in order. ISO 8601 only;
// ambiguous locale-dependent forms like 06/15/2024 are rejected on purpose.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// NormalizeDate parses an incoming date string and rewrites it to the
// canonical YYYY-MM-DD form using the parsed instant's UTC calendar date.
func NormalizeDate(value string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format("2006-01-02"), nil
		}
	}
	return "", domain.NewValidationError("date", domain.RuleInvalidDate)
}

var (
	clock24 = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clock12 = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([APap][Mm])$`)
)

// NormalizeTime converts a clock string to canonical zero-padded 24-hour
// HH:MM. It accepts 24-hour H:MM/HH:MM (hour 0-23) and 12-hour H:MM/HH:MM
// followed by an optional space and AM/PM (hour 1-12): 12 AM maps to 00,
// 12 PM stays 12, other PM hours add 12.
func NormalizeTime(value string) (string, error) {
	if m := clock12.FindStringSubmatch(value); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return "", domain.NewValidationError("time", domain.RuleInvalidTime)
		}
		pm := strings.EqualFold(m[3], "pm")
		switch {
		case !pm && hour == 12:
			hour = 0
		case pm && hour != 12:
			hour += 12
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}
	if m := clock24.FindStringSubmatch(value); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", domain.NewValidationError("time", domain.RuleInvalidTime)
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}
	return "", domain.NewValidationError("time", domain.RuleInvalidTime)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventbooking/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type eventRepository struct {
	conns ConnectionSource
}

func NewEventRepository(conns ConnectionSource) domain.EventRepository {
	return &eventRepository{
		conns: conns,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, slug, description, overview, image, venue, location, date, time, mode, audience, organizer, agenda, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, e.Organizer,
		pq.Array(e.Agenda), pq.Array(e.Tags), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE events
		SET title = $1, slug = $2, description = $3, overview = $4, image = $5,
			venue = $6, location = $7, date = $8, time = $9, mode = $10,
			audience = $11, organizer = $12, agenda = $13, tags = $14, updated_at = $15
		WHERE id = $16
	`
	result, err := db.ExecContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, e.Organizer,
		pq.Array(e.Agenda), pq.Array(e.Tags), e.UpdatedAt, e.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const eventColumns = `id, title, slug, description, overview, image, venue, location, date, time, mode, audience, organizer, agenda, tags, created_at, updated_at`

func scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image,
		&e.Venue, &e.Location, &e.Date, &e.Time, &e.Mode, &e.Audience,
		&e.Organizer, pq.Array(&e.Agenda), pq.Array(&e.Tags),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(db.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	return scanEvent(db.QueryRowContext(ctx, query, slug))
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image,
			&e.Venue, &e.Location, &e.Date, &e.Time, &e.Mode, &e.Audience,
			&e.Organizer, pq.Array(&e.Agenda), pq.Array(&e.Tags),
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return false, err
	}
	query := `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`
	var exists bool
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventbooking/internal/domain"
)

type bookingRepository struct {
	conns ConnectionSource
}

func NewBookingRepository(conns ConnectionSource) domain.BookingRepository {
	return &bookingRepository{
		conns: conns,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (event_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return db.QueryRowContext(ctx, query, b.EventID, b.Email, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE bookings
		SET event_id = $1, email = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := db.ExecContext(ctx, query, b.EventID, b.Email, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	b := &domain.Booking{}
	err = db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	db, err := r.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

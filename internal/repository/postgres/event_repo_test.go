package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// staticSource hands out a fixed handle, standing in for Manager in tests.
type staticSource struct {
	db *sql.DB
}

func (s staticSource) Acquire(ctx context.Context) (*sql.DB, error) {
	return s.db, nil
}

func testEvent() *domain.Event {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Event{
		Title:       "GopherCon",
		Slug:        "gophercon",
		Description: "The Go conference",
		Overview:    "Talks and workshops",
		Image:       "https://example.com/banner.png",
		Venue:       "Convention Center",
		Location:    "Berlin",
		Date:        "2026-03-14",
		Time:        "09:30",
		Mode:        domain.EventModeOffline,
		Audience:    "Gophers",
		Organizer:   "GoBridge",
		Agenda:      []string{"Keynote", "Workshops"},
		Tags:        []string{"go", "conference"},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func eventRows(e *domain.Event) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "slug", "description", "overview", "image", "venue",
		"location", "date", "time", "mode", "audience", "organizer",
		"agenda", "tags", "created_at", "updated_at",
	}).AddRow(
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue,
		e.Location, e.Date, e.Time, e.Mode, e.Audience, e.Organizer,
		"{Keynote,Workshops}", "{go,conference}", e.CreatedAt, e.UpdatedAt,
	)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, slug, description, overview, image, venue, location, date, time, mode, audience, organizer, agenda, tags, created_at, updated_at\)`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name: "duplicate slug",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "events_slug_key"})
			},
			wantErr: domain.ErrDuplicateSlug,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(staticSource{db})
			event := testEvent()
			err = repo.Create(ctx, event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing row",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "slug collision",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "events_slug_key"})
			},
			wantErr: domain.ErrDuplicateSlug,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(staticSource{db})
			event := testEvent()
			event.ID = "ev-uuid-1"
			err = repo.Update(ctx, event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		want := testEvent()
		want.ID = "ev-uuid-1"
		mock.ExpectQuery(`SELECT id, title, slug, .+ FROM events WHERE id = \$1`).
			WithArgs("ev-uuid-1").
			WillReturnRows(eventRows(want))

		repo := NewEventRepository(staticSource{db})
		got, err := repo.GetByID(ctx, "ev-uuid-1")
		require.NoError(t, err)
		require.Equal(t, want.Slug, got.Slug)
		require.Equal(t, []string{"Keynote", "Workshops"}, got.Agenda)
		require.Equal(t, []string{"go", "conference"}, got.Tags)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, slug, .+ FROM events WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(staticSource{db})
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		want := testEvent()
		want.ID = "ev-uuid-1"
		mock.ExpectQuery(`SELECT id, title, slug, .+ FROM events WHERE slug = \$1`).
			WithArgs("gophercon").
			WillReturnRows(eventRows(want))

		repo := NewEventRepository(staticSource{db})
		got, err := repo.GetBySlug(ctx, "gophercon")
		require.NoError(t, err)
		require.Equal(t, "ev-uuid-1", got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, slug, .+ FROM events WHERE slug = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(staticSource{db})
		_, err = repo.GetBySlug(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	want := testEvent()
	want.ID = "ev-uuid-1"
	mock.ExpectQuery(`SELECT id, title, slug, .+ FROM events ORDER BY created_at DESC`).
		WillReturnRows(eventRows(want))

	repo := NewEventRepository(staticSource{db})
	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "ev-uuid-1", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ExistsByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		exists bool
	}{
		{name: "present", exists: true},
		{name: "absent", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM events WHERE id = \$1\)`).
				WithArgs("ev-uuid-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			repo := NewEventRepository(staticSource{db})
			got, err := repo.ExistsByID(ctx, "ev-uuid-1")
			require.NoError(t, err)
			require.Equal(t, tt.exists, got)
		})
	}
}

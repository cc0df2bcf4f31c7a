package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/lib/pq"
)

// ConnectionSource yields the shared database handle. Satisfied by Manager;
// repositories depend on this instead of a raw handle so the connection can
// be established lazily and retried after a failed attempt.
type ConnectionSource interface {
	Acquire(ctx context.Context) (*sql.DB, error)
}

// ConnectFunc opens and verifies a database handle for the given target.
// Manager calls it at most once per connection attempt.
type ConnectFunc func(ctx context.Context, dsn string) (*sql.DB, error)

// Connect opens a Postgres handle and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Manager owns the single shared database handle for the process. The first
// Acquire starts a connection attempt; callers arriving while that attempt
// is in flight wait on it instead of starting their own, and all observe the
// same outcome. A failed attempt is cleared so the next Acquire retries; a
// successful one caches the handle for the life of the process.
type Manager struct {
	dsn     string
	connect ConnectFunc
	logger  *slog.Logger

	mu      sync.Mutex
	db      *sql.DB
	pending *attempt
}

// attempt is one in-flight connection attempt shared by all waiters.
// db and err are written exactly once, before done is closed.
type attempt struct {
	done chan struct{}
	db   *sql.DB
	err  error
}

// NewManager returns a Manager for the given connection target. connect may
// be nil, in which case Connect is used.
func NewManager(dsn string, connect ConnectFunc, logger *slog.Logger) *Manager {
	if connect == nil {
		connect = Connect
	}
	return &Manager{dsn: dsn, connect: connect, logger: logger}
}

// Acquire returns the shared database handle, connecting lazily on first
// use. Concurrent callers during a single connection attempt share that
// attempt. Caller cancellation unblocks only that caller; the attempt keeps
// running for the others.
func (m *Manager) Acquire(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	if m.db != nil {
		db := m.db
		m.mu.Unlock()
		return db, nil
	}
	att := m.pending
	if att == nil {
		att = &attempt{done: make(chan struct{})}
		m.pending = att
		go m.run(att)
	}
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire connection: %w", ctx.Err())
	case <-att.done:
	}
	return att.db, att.err
}

func (m *Manager) run(att *attempt) {
	// Deliberately not tied to any single caller's context: the attempt is
	// shared, and one caller giving up must not fail the rest.
	db, err := m.connect(context.Background(), m.dsn)

	m.mu.Lock()
	m.pending = nil
	if err == nil {
		m.db = db
	}
	m.mu.Unlock()

	if err == nil && m.logger != nil {
		m.logger.Info("database connected")
	}
	att.db = db
	att.err = err
	close(att.done)
}

// Close tears down the cached handle, if any. Intended for process shutdown.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

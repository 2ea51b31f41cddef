// Package state persists lesson run history in a local SQLite
// database so learners can review their progress across sessions.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// LessonRun is one recorded lesson execution.
type LessonRun struct {
	ID         string    `db:"id"`
	Lesson     string    `db:"lesson"`
	Target     string    `db:"target"`
	Status     string    `db:"status"`
	Error      *string   `db:"error"`
	StartedAt  time.Time `db:"started_at"`
	DurationMs int64     `db:"duration_ms"`
}

// Store wraps the history database.
type Store struct {
	db     *sqlx.DB
	path   string
	logger *slog.Logger
}

// NewStore creates an unopened store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Open connects to the SQLite database at path and runs pending
// migrations. ":memory:" opens an in-memory database.
func (s *Store) Open(path string) error {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping state database: %w", err)
	}

	if err := Migrate(db.DB); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", slog.String("path", path))
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string { return s.path }

// DB exposes the raw connection for migration inspection.
func (s *Store) DB() *sql.DB {
	if s.db == nil {
		return nil
	}
	return s.db.DB
}

// SaveRun records one lesson run and returns its generated ID.
func (s *Store) SaveRun(ctx context.Context, run LessonRun) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("state database not opened")
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.StartedAt = run.StartedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO lesson_runs (id, lesson, target, status, error, started_at, duration_ms)
		VALUES (:id, :lesson, :target, :status, :error, :started_at, :duration_ms)`,
		run)
	if err != nil {
		return "", fmt.Errorf("failed to save lesson run: %w", err)
	}

	s.logger.Debug("lesson run recorded",
		slog.String("id", run.ID),
		slog.String("lesson", run.Lesson),
		slog.String("status", run.Status))
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first. A lesson filter
// of "" matches everything.
func (s *Store) ListRuns(ctx context.Context, lesson string, limit int) ([]LessonRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("state database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, lesson, target, status, error, started_at, duration_ms
		FROM lesson_runs`
	args := []any{}
	if lesson != "" {
		query += ` WHERE lesson = ?`
		args = append(args, lesson)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	var runs []LessonRun
	if err := s.db.SelectContext(ctx, &runs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list lesson runs: %w", err)
	}
	return runs, nil
}

// LastRun returns the most recent run of a lesson, or nil if it has
// never been run.
func (s *Store) LastRun(ctx context.Context, lesson string) (*LessonRun, error) {
	runs, err := s.ListRuns(ctx, lesson, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

package lesson

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
)

// Tx wraps a database transaction together with the lesson's renderer
// so step functions can execute SQL and show results. All SQL uses ?
// placeholders; Rebind converts them for the target dialect.
type Tx struct {
	tx     *sqlx.Tx
	r      *output.Renderer
	log    *slog.Logger
	format string
}

// Exec runs a statement that returns no rows.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}
	return nil
}

// BatchInsert prepares the statement once and executes it per row.
func (t *Tx) BatchInsert(ctx context.Context, query string, rows [][]any) error {
	stmt, err := t.tx.PreparexContext(ctx, t.tx.Rebind(query))
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("batch insert row %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Query runs a SELECT and materializes the result.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*output.ResultSet, error) {
	rows, err := t.tx.QueryContext(ctx, t.tx.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return output.CollectRows(rows)
}

// Timed runs a SELECT and reports how long the database round trip
// took, for before/after index comparisons.
func (t *Tx) Timed(ctx context.Context, query string, args ...any) (*output.ResultSet, time.Duration, error) {
	start := time.Now()
	rs, err := t.Query(ctx, query, args...)
	return rs, time.Since(start), err
}

// Show runs a SELECT and renders the result as a grid under a title.
func (t *Tx) Show(ctx context.Context, title, query string, args ...any) error {
	rs, err := t.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	t.Render(title, rs)
	return nil
}

// Render prints a titled result set in the lesson's output format.
func (t *Tx) Render(title string, rs *output.ResultSet) {
	if title != "" {
		t.r.Printf("\n%s\n", title)
	}
	if err := output.RenderResultSet(t.r.Out(), rs, t.format); err != nil {
		t.log.Warn("failed to render result set", slog.String("error", err.Error()))
	}
}

// Printf writes step-level commentary to the lesson transcript.
func (t *Tx) Printf(fmtStr string, args ...any) {
	t.r.Printf(fmtStr, args...)
}

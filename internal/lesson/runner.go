package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
)

// Run statuses recorded in the state store.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Result summarizes one lesson run.
type Result struct {
	Lesson    string
	Dialect   string
	Status    string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Runner executes lessons against a database handle.
type Runner struct {
	DB       *sqlx.DB
	Renderer *output.Renderer
	Logger   *slog.Logger
	Dialect  string

	// Keep skips the cleanup statements so learners can inspect the
	// tables afterwards with the query command.
	Keep bool
}

// Run walks the lesson section by section. Each section runs in its
// own transaction; expected-failure steps run in a dedicated
// transaction that is always rolled back. Cleanup runs even when a
// step fails, keeping lessons idempotent.
func (r *Runner) Run(ctx context.Context, l *Lesson) (*Result, error) {
	res := &Result{
		Lesson:    l.Slug,
		Dialect:   r.Dialect,
		Status:    StatusSuccess,
		StartedAt: time.Now(),
	}

	if !l.Supports(r.Dialect) {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("lesson %q requires %s; target dialect is %s",
			l.Slug, strings.Join(l.Dialects, " or "), r.Dialect)
		res.Duration = time.Since(res.StartedAt)
		return res, errors.New(res.Error)
	}

	r.Renderer.Header(1, fmt.Sprintf("Lesson %02d: %s", l.Number, l.Title))

	var runErr error
	for i := range l.Sections {
		if err := r.runSection(ctx, &l.Sections[i]); err != nil {
			runErr = err
			break
		}
	}

	if !r.Keep {
		if err := r.cleanup(ctx, l); err != nil {
			r.Logger.Warn("cleanup failed", slog.String("lesson", l.Slug), slog.String("error", err.Error()))
			if runErr == nil {
				runErr = err
			}
		}
	}

	res.Duration = time.Since(res.StartedAt)
	if runErr != nil {
		res.Status = StatusFailed
		res.Error = runErr.Error()
		return res, runErr
	}

	r.Renderer.Success(fmt.Sprintf("\nLesson %02d completed in %s. Connection state is clean.",
		l.Number, res.Duration.Round(time.Millisecond)))
	return res, nil
}

func (r *Runner) begin(ctx context.Context) (*Tx, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, r: r.Renderer, log: r.Logger, format: r.resultFormat()}, nil
}

func (r *Runner) resultFormat() string {
	if r.Renderer.EffectiveMode() == output.ModeText {
		return "table"
	}
	return "md"
}

func (r *Runner) runSection(ctx context.Context, sec *Section) (err error) {
	r.Renderer.Header(2, sec.Title)

	cur, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cur != nil {
			_ = cur.tx.Rollback()
		}
	}()

	for _, step := range sec.Steps {
		if step.Label != "" {
			r.Renderer.Printf("[%s] %s\n", step.Label, step.Title)
		}

		if step.ExpectError != "" {
			// Commit accumulated work first; the deliberate violation
			// must not poison the section's transaction.
			if cerr := cur.tx.Commit(); cerr != nil {
				cur = nil
				return fmt.Errorf("commit before expected failure: %w", cerr)
			}
			cur = nil

			if ferr := r.runExpectedFailure(ctx, step); ferr != nil {
				return ferr
			}

			if cur, err = r.begin(ctx); err != nil {
				return err
			}
			continue
		}

		if serr := r.execStep(ctx, cur, step); serr != nil {
			return fmt.Errorf("step [%s] %s: %w", step.Label, step.Title, serr)
		}
	}

	err = cur.tx.Commit()
	cur = nil
	if err != nil {
		return fmt.Errorf("failed to commit section %q: %w", sec.Title, err)
	}
	return nil
}

// runExpectedFailure executes the step in a throwaway transaction.
// The constraint violation is the point of the step, so success is
// the failure case.
func (r *Runner) runExpectedFailure(ctx context.Context, step Step) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.tx.Rollback() }()

	stepErr := r.execStep(ctx, tx, step)
	if stepErr == nil {
		return fmt.Errorf("step [%s] expected a %s but the statement succeeded",
			step.Label, step.ExpectError)
	}

	r.Renderer.Printf("\n[%s] rolled back: %s\n", step.ExpectError, rootMessage(stepErr))
	return nil
}

func (r *Runner) execStep(ctx context.Context, tx *Tx, step Step) error {
	for _, stmt := range step.SQL {
		if err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	if step.Batch != nil {
		if err := tx.BatchInsert(ctx, step.Batch.SQL, step.Batch.Rows); err != nil {
			return err
		}
	}
	if step.Func != nil {
		if err := step.Func(ctx, tx); err != nil {
			return err
		}
	}
	for _, q := range step.Show {
		if err := tx.Show(ctx, q.Title, q.SQL, q.Args...); err != nil {
			return err
		}
	}
	return nil
}

// cleanup drops lesson objects in a fresh transaction so re-runs
// always start from a clean schema.
func (r *Runner) cleanup(ctx context.Context, l *Lesson) error {
	if len(l.Cleanup) == 0 {
		return nil
	}

	tx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if tx != nil {
			_ = tx.tx.Rollback()
		}
	}()

	for _, stmt := range l.Cleanup {
		if err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("cleanup statement failed: %w", err)
		}
	}

	err = tx.tx.Commit()
	tx = nil
	return err
}

// rootMessage unwraps driver errors to the innermost message so the
// transcript shows the constraint name, not the wrap chain.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

// Package lesson defines executable teaching lessons and the runner
// that walks them against a target database. A lesson is a numbered
// sequence of sections, each a transaction-scoped list of labeled
// steps, mirroring the classic "[2-3] Insert sample rows..." teaching
// script structure.
package lesson

import "context"

// Query is a SELECT whose result is rendered as a grid for the
// learner.
type Query struct {
	Title string
	SQL   string
	Args  []any
}

// Batch is the executemany equivalent: one parameterized INSERT
// prepared once and executed for every row. Placeholders use ? and
// are rebound to the target dialect.
type Batch struct {
	SQL  string
	Rows [][]any
}

// StepFunc is the escape hatch for steps that need client-side logic
// (row synthesis, normalization splits, timing comparisons).
type StepFunc func(ctx context.Context, tx *Tx) error

// Step is one labeled action inside a section. Execution order:
// SQL statements, Batch, Func, Show queries.
//
// A step with ExpectError set is a deliberate constraint violation:
// it runs in its own transaction which is rolled back, and the step
// fails the lesson only if the error does NOT occur.
type Step struct {
	Label       string // e.g. "2-3"
	Title       string // e.g. "Insert sample rows via batch insert."
	ExpectError string // violation tag, e.g. "PK Violation"; empty = must succeed

	SQL   []string
	Batch *Batch
	Func  StepFunc
	Show  []Query
}

// Section is a titled group of steps sharing one transaction, the
// engine.begin() unit of the original scripts.
type Section struct {
	Title string
	Steps []Step
}

// Lesson is a complete teaching walkthrough.
type Lesson struct {
	Number int
	Slug   string
	Title  string
	Topics []string

	// Dialects restricts the lesson to specific adapter dialects.
	// Empty means the SQL is ANSI-portable and runs anywhere.
	Dialects []string

	Sections []Section

	// Cleanup statements always run at the end (and after failures)
	// so lessons stay idempotent across re-runs.
	Cleanup []string
}

// Supports reports whether the lesson can run on the given dialect.
func (l *Lesson) Supports(dialect string) bool {
	if len(l.Dialects) == 0 {
		return true
	}
	for _, d := range l.Dialects {
		if d == dialect {
			return true
		}
	}
	return false
}

// Statement is a labeled SQL string extracted for conformance
// checking.
type Statement struct {
	Label string
	SQL   string

	// Display marks queries whose results are shown to the learner.
	// Some conventions (SELECT * in particular) are allowed there.
	Display bool
}

// SQLStatements collects every declarative SQL string in the lesson
// (step statements, batch templates, display queries, cleanup) for
// the style checker. SQL assembled inside Func steps is not visible
// here.
func (l *Lesson) SQLStatements() []Statement {
	var stmts []Statement
	add := func(label, sql string, display bool) {
		if sql != "" {
			stmts = append(stmts, Statement{Label: label, SQL: sql, Display: display})
		}
	}

	for _, sec := range l.Sections {
		for _, step := range sec.Steps {
			for _, s := range step.SQL {
				add(step.Label, s, false)
			}
			if step.Batch != nil {
				add(step.Label, step.Batch.SQL, false)
			}
			for _, q := range step.Show {
				add(step.Label, q.SQL, true)
			}
		}
	}
	for _, s := range l.Cleanup {
		add("cleanup", s, false)
	}
	return stmts
}

package lesson

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
	"github.com/leapstack-labs/sqlcoach/internal/testutil"
)

func newTestRunner(t *testing.T) (*Runner, sqlmock.Sqlmock, *bytes.Buffer) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var buf bytes.Buffer
	r := &Runner{
		DB:       sqlx.NewDb(db, "sqlmock"),
		Renderer: output.NewRenderer(&buf, &buf, output.ModeMarkdown),
		Logger:   testutil.NewTestLogger(t),
		Dialect:  "postgres",
	}
	return r, mock, &buf
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestRunnerSuccess(t *testing.T) {
	r, mock, buf := newTestRunner(t)

	l := &Lesson{
		Number: 1, Slug: "demo", Title: "Demo",
		Sections: []Section{{
			Title: "one",
			Steps: []Step{
				{Label: "1-1", Title: "create", SQL: []string{"CREATE TABLE t (a INT);"}},
				{Label: "1-2", Title: "show", Show: []Query{{Title: "rows", SQL: "SELECT a FROM t;"}}},
			},
		}},
		Cleanup: []string{"DROP TABLE IF EXISTS t;"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(q("CREATE TABLE t (a INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("SELECT a FROM t;")).
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()
	// Cleanup transaction.
	mock.ExpectBegin()
	mock.ExpectExec(q("DROP TABLE IF EXISTS t;")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := r.Run(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "demo", res.Lesson)
	assert.Contains(t, buf.String(), "Lesson 01: Demo")
	assert.Contains(t, buf.String(), "[1-1] create")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerExpectedFailure(t *testing.T) {
	r, mock, buf := newTestRunner(t)

	l := &Lesson{
		Number: 3, Slug: "violations", Title: "Violations",
		Sections: []Section{{
			Title: "constraints",
			Steps: []Step{
				{Label: "1-1", Title: "seed", SQL: []string{"INSERT INTO t VALUES (1);"}},
				{Label: "1-2", Title: "dup", ExpectError: "PK Violation",
					SQL: []string{"INSERT INTO t VALUES (1);"}},
				{Label: "1-3", Title: "more", SQL: []string{"INSERT INTO t VALUES (2);"}},
			},
		}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO t VALUES (1);")).WillReturnResult(sqlmock.NewResult(0, 1))
	// Accumulated work commits before the deliberate violation.
	mock.ExpectCommit()
	// Violation runs in a throwaway transaction, always rolled back.
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO t VALUES (1);")).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()
	// A fresh transaction resumes the section.
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO t VALUES (2);")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := r.Run(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Contains(t, buf.String(), "[PK Violation] rolled back")
	assert.Contains(t, buf.String(), "duplicate key value")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerExpectedFailureSucceeds(t *testing.T) {
	r, mock, _ := newTestRunner(t)

	l := &Lesson{
		Number: 3, Slug: "violations", Title: "Violations",
		Sections: []Section{{
			Title: "constraints",
			Steps: []Step{
				{Label: "1-1", Title: "dup", ExpectError: "PK Violation",
					SQL: []string{"INSERT INTO t VALUES (1);"}},
			},
		}},
		Cleanup: []string{"DROP TABLE IF EXISTS t;"},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	// The statement unexpectedly succeeds.
	mock.ExpectExec(q("INSERT INTO t VALUES (1);")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()
	// Cleanup still runs after the failure.
	mock.ExpectBegin()
	mock.ExpectExec(q("DROP TABLE IF EXISTS t;")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := r.Run(context.Background(), l)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "expected a PK Violation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerStepFailureStillCleansUp(t *testing.T) {
	r, mock, _ := newTestRunner(t)

	l := &Lesson{
		Number: 1, Slug: "demo", Title: "Demo",
		Sections: []Section{{
			Title: "one",
			Steps: []Step{{Label: "1-1", Title: "boom", SQL: []string{"SELECT broken;"}}},
		}},
		Cleanup: []string{"DROP TABLE IF EXISTS t;"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(q("SELECT broken;")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(q("DROP TABLE IF EXISTS t;")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := r.Run(context.Background(), l)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "syntax error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerKeepSkipsCleanup(t *testing.T) {
	r, mock, _ := newTestRunner(t)
	r.Keep = true

	l := &Lesson{
		Number: 1, Slug: "demo", Title: "Demo",
		Sections: []Section{{
			Title: "one",
			Steps: []Step{{Label: "1-1", Title: "create", SQL: []string{"CREATE TABLE t (a INT);"}}},
		}},
		Cleanup: []string{"DROP TABLE IF EXISTS t;"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(q("CREATE TABLE t (a INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	// No cleanup expectations.

	res, err := r.Run(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerUnsupportedDialect(t *testing.T) {
	r, mock, _ := newTestRunner(t)
	r.Dialect = "duckdb"

	l := &Lesson{
		Number: 7, Slug: "json-fts", Title: "JSONB",
		Dialects: []string{"postgres"},
	}

	res, err := r.Run(context.Background(), l)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "requires postgres")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerBatchInsert(t *testing.T) {
	r, mock, _ := newTestRunner(t)

	l := &Lesson{
		Number: 1, Slug: "demo", Title: "Demo",
		Sections: []Section{{
			Title: "one",
			Steps: []Step{{
				Label: "1-1", Title: "batch",
				Batch: &Batch{
					SQL:  "INSERT INTO t (a, b) VALUES (?, ?);",
					Rows: [][]any{{1, "x"}, {2, "y"}},
				},
			}},
		}},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(q("INSERT INTO t (a, b) VALUES (?, ?);"))
	prep.ExpectExec().WithArgs(1, "x").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(2, "y").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	res, err := r.Run(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRootMessage(t *testing.T) {
	inner := errors.New("constraint violated")
	wrapped := contextWrap(contextWrap(inner))
	assert.Equal(t, "constraint violated", rootMessage(wrapped))
	assert.Equal(t, "plain", rootMessage(errors.New("plain")))
}

func contextWrap(err error) error {
	return &wrappedErr{err}
}

type wrappedErr struct{ err error }

func (w *wrappedErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrappedErr) Unwrap() error { return w.err }

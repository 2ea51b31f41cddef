package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbeDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestProbeFeaturesAllPass(t *testing.T) {
	db, mock := newProbeDB(t)
	for _, p := range postgresProbes {
		mock.ExpectQuery(p.SQL).
			WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(1))
	}

	var out strings.Builder
	printf := func(format string, args ...any) { fmt.Fprintf(&out, format, args...) }

	failures := probeFeatures(context.Background(), printf, db)
	assert.Zero(t, failures)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Group headings are title-cased once per group.
	assert.Contains(t, out.String(), "Document Storage")
	assert.Contains(t, out.String(), "Views")
	assert.Equal(t, 1, strings.Count(out.String(), "Document Storage"))
}

func TestProbeFeaturesReportsFailure(t *testing.T) {
	db, mock := newProbeDB(t)
	for i, p := range postgresProbes {
		q := mock.ExpectQuery(p.SQL)
		if i == 0 {
			q.WillReturnError(fmt.Errorf("operator does not exist"))
			continue
		}
		q.WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(1))
	}

	var out strings.Builder
	printf := func(format string, args ...any) { fmt.Fprintf(&out, format, args...) }

	failures := probeFeatures(context.Background(), printf, db)
	assert.Equal(t, 1, failures)
	assert.Contains(t, out.String(), "[FAIL] jsonb containment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbesCoverMatviewLesson(t *testing.T) {
	var matview bool
	for _, p := range postgresProbes {
		if strings.Contains(p.SQL, "pg_matviews") {
			matview = true
			assert.Contains(t, p.Lessons, "uuid-matview")
		}
	}
	assert.True(t, matview, "doctor should probe materialized view support")
}

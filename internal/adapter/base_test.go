package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBase(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{Handle: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.Handle = sqlx.NewDb(db, "sqlmock")
			}

			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	base := &BaseSQLAdapter{}
	assert.False(t, base.IsConnected())

	connected, _ := newMockBase(t)
	assert.True(t, connected.IsConnected())
}

func TestConnectRejectsSecondConnect(t *testing.T) {
	base, _ := newMockBase(t)

	pg := NewPostgresAdapter(nil)
	pg.BaseSQLAdapter = *base
	assert.ErrorContains(t, pg.Connect(context.Background(), Config{}), "already connected")

	duck := NewDuckDBAdapter(nil)
	duck.BaseSQLAdapter = *base
	assert.ErrorContains(t, duck.Connect(context.Background(), Config{}), "already connected")
}

func TestBaseSQLAdapter_QueryVersion(t *testing.T) {
	base, mock := newMockBase(t)
	mock.ExpectQuery("SELECT version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.4"))

	version, err := base.queryVersion(context.Background(), "SELECT version()")
	require.NoError(t, err)
	assert.Equal(t, "PostgreSQL 16.4", version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_QueryVersion_NotConnected(t *testing.T) {
	base := &BaseSQLAdapter{}
	_, err := base.queryVersion(context.Background(), "SELECT version()")
	assert.ErrorContains(t, err, "not established")
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "defaults",
			cfg:  Config{Database: "avengers"},
			want: "host=localhost port=5432 dbname=avengers sslmode=disable",
		},
		{
			name: "full config",
			cfg: Config{
				Host: "db.internal", Port: 5433, Database: "teach",
				Username: "coach", Password: "secret",
				Options: map[string]string{"sslmode": "require"},
			},
			want: "host=db.internal port=5433 dbname=teach sslmode=require user=coach password=secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPostgresDSN(tt.cfg))
		})
	}
}

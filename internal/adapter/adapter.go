// Package adapter provides database adapter interfaces and
// implementations for running sqlcoach lessons against a target
// database.
package adapter

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Config holds the configuration for connecting to a database.
type Config struct {
	// Type specifies the database type (e.g., "postgres", "duckdb")
	Type string

	// Path is the file path for file-based databases (e.g., DuckDB).
	// Use ":memory:" for an in-memory database.
	Path string

	// Host is the hostname for network-based databases
	Host string

	// Port is the port number for network-based databases
	Port int

	// Database is the database name
	Database string

	// Username for authentication
	Username string

	// Password for authentication
	Password string

	// Options contains additional driver-specific options
	Options map[string]string
}

// Adapter defines the interface that all database adapters implement.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// DB returns the underlying sqlx handle, or nil before Connect.
	DB() *sqlx.DB

	// DialectName returns the SQL dialect name for this adapter
	// (e.g., "postgres", "duckdb"). Lessons use it to decide whether
	// their SQL is runnable on the target.
	DialectName() string

	// ServerVersion reports the server or library version string.
	ServerVersion(ctx context.Context) (string, error)
}

package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// BaseSQLAdapter provides common database/sql functionality for
// adapters. Embed this struct in concrete adapter implementations to
// get standard Close, DB, and version-query implementations.
type BaseSQLAdapter struct {
	Handle *sqlx.DB
	Cfg    Config
	Logger *slog.Logger
}

// DB returns the underlying sqlx handle.
func (b *BaseSQLAdapter) DB() *sqlx.DB {
	return b.Handle
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Handle != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.Handle.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Handle != nil
}

// queryVersion runs a single-value version query.
func (b *BaseSQLAdapter) queryVersion(ctx context.Context, query string) (string, error) {
	if b.Handle == nil {
		return "", fmt.Errorf("database connection not established")
	}
	var version string
	if err := b.Handle.GetContext(ctx, &version, query); err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}
	return version, nil
}

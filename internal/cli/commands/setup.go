package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/adapter"
	"github.com/leapstack-labs/sqlcoach/internal/cli/config"
	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
	"github.com/leapstack-labs/sqlcoach/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the shared dependencies from the loaded
// configuration and the command's writers.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.Current()

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{Cfg: cfg, Logger: logger, Renderer: r}
}

// connectTarget resolves the named target (or the configured default)
// and opens an adapter connection. The returned cleanup closes it.
func (c *CommandContext) connectTarget(ctx context.Context, name string) (adapter.Adapter, config.TargetConfig, func(), error) {
	tgt, err := c.Cfg.ResolveTarget(name)
	if err != nil {
		return nil, config.TargetConfig{}, nil, err
	}

	a, err := adapter.NewAdapter(tgt.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, config.TargetConfig{}, nil, err
	}
	if err := a.Connect(ctx, tgt.AdapterConfig()); err != nil {
		return nil, config.TargetConfig{}, nil, fmt.Errorf("failed to connect to target: %w", err)
	}

	cleanup := func() { _ = a.Close() }
	return a, tgt, cleanup, nil
}

// openStateStore opens the run-history database, creating its parent
// directory on first use.
func (c *CommandContext) openStateStore() (*state.Store, func(), error) {
	path := c.Cfg.StatePath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	s := state.NewStore(c.Logger)
	if err := s.Open(path); err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query [sql]",
		Short: "Run ad-hoc SQL against the target",
		Long: `Execute a single statement against the configured target and render
the result, or start an interactive REPL when no statement is given.

Handy after "run --keep" to poke at the tables a lesson left behind.`,
		Example: `  # One-shot query
  sqlcoach query "SELECT * FROM heroes ORDER BY id;"

  # Interactive REPL
  sqlcoach query

  # CSV output for scripts
  sqlcoach query --format csv "SELECT name, price FROM products;"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			adp, _, disconnect, err := cmdCtx.connectTarget(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer disconnect()

			if len(args) == 1 {
				return executeAndRender(cmd.Context(), cmdCtx, adp.DB(), args[0], format)
			}
			return runQueryREPL(cmd, cmdCtx, adp.DB(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "result format (table|json|csv|md)")
	return cmd
}

// executeAndRender runs one statement. SELECT-shaped statements render
// a grid; everything else reports rows affected.
func executeAndRender(ctx context.Context, cmdCtx *CommandContext, db *sqlx.DB, query, format string) error {
	query = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if query == "" {
		return fmt.Errorf("empty statement")
	}

	if isRowQuery(query) {
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		rs, err := output.CollectRows(rows)
		if err != nil {
			return err
		}
		return output.RenderResultSet(cmdCtx.Renderer.Out(), rs, format)
	}

	res, err := db.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		cmdCtx.Renderer.Printf("OK, %d rows affected\n", n)
	} else {
		cmdCtx.Renderer.Println("OK")
	}
	return nil
}

func isRowQuery(query string) bool {
	head := strings.ToUpper(query)
	for _, prefix := range []string{"SELECT", "WITH", "EXPLAIN", "SHOW", "TABLE", "VALUES"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// replHistoryFile returns the readline history path next to the state
// database, creating the directory so history works before the state
// store has ever been opened.
func replHistoryFile(statePath string) string {
	dir := filepath.Dir(statePath)
	if dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	return filepath.Join(dir, "query_history")
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, db *sqlx.DB, format string) error {
	historyFile := replHistoryFile(cmdCtx.Cfg.StatePath)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sqlcoach> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "sqlcoach interactive query shell")
	_, _ = fmt.Fprintln(out, "Statements end with ';'. Type .help for commands, .quit to exit.")
	_, _ = fmt.Fprintln(out)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt("sqlcoach> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") && buf.Len() == 0 {
			if quit := handleDotCommand(cmd, line, &format); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until a terminating semicolon.
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt("     ...> ")
			continue
		}
		rl.SetPrompt("sqlcoach> ")

		query := buf.String()
		buf.Reset()

		if err := executeAndRender(cmd.Context(), cmdCtx, db, query, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(out)
	}

	return nil
}

// handleDotCommand processes REPL meta commands. Returns true when the
// REPL should exit.
func handleDotCommand(cmd *cobra.Command, line string, format *string) bool {
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".help":
		_, _ = fmt.Fprintln(out, "  .help            show this help")
		_, _ = fmt.Fprintln(out, "  .format <fmt>    set result format (table|json|csv|md)")
		_, _ = fmt.Fprintln(out, "  .quit            exit the shell")
	case ".format":
		if len(fields) == 2 {
			*format = fields[1]
			_, _ = fmt.Fprintf(out, "format set to %s\n", *format)
		} else {
			_, _ = fmt.Fprintf(out, "current format: %s\n", *format)
		}
	default:
		_, _ = fmt.Fprintf(out, "unknown command %s (try .help)\n", fields[0])
	}
	return false
}

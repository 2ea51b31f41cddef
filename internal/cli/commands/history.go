package commands

import (
	"encoding/json"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		lessonFilter string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lesson runs",
		Long:  `List lesson runs recorded in the local state database, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, lessonFilter, limit)
		},
	}

	cmd.Flags().StringVar(&lessonFilter, "lesson", "", "only show runs of this lesson slug")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, lessonFilter string, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, closeStore, err := cmdCtx.openStateStore()
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := store.ListRuns(cmd.Context(), lessonFilter, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		r.Println("No lesson runs recorded yet.")
		return nil
	}

	if r.EffectiveMode() == output.ModeJSON {
		enc := json.NewEncoder(r.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Lesson", "Target", "Status", "Duration", "Error"})
	for _, run := range runs {
		errMsg := ""
		if run.Error != nil {
			errMsg = *run.Error
		}
		t.AppendRow(table.Row{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Lesson,
			run.Target,
			run.Status,
			(time.Duration(run.DurationMs) * time.Millisecond).String(),
			errMsg,
		})
	}
	t.Render()
	return nil
}

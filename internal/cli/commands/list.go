package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/cli/output"
	"github.com/leapstack-labs/sqlcoach/internal/lesson"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the lesson roster",
		Long: `List every lesson with its number, slug, topics, and the dialects
it supports.

Output adapts to environment:
  - Terminal: styled table
  - Piped/Scripted: markdown
  - --output json for machine consumption`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	lessons := lesson.All()
	lastRuns := lastRunIndex(cmd, cmdCtx, lessons)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listJSON(r, lessons, lastRuns)
	case output.ModeMarkdown:
		listMarkdown(r, lessons, lastRuns)
	default:
		listText(r, lessons, lastRuns)
	}
	return nil
}

// lastRunIndex maps lesson slugs to a short last-run summary. Listing
// must work without a history database, so a missing or unreadable
// store yields no annotations instead of an error, and the store is
// never created here.
func lastRunIndex(cmd *cobra.Command, cmdCtx *CommandContext, lessons []*lesson.Lesson) map[string]string {
	if cmdCtx.Cfg.StatePath != ":memory:" {
		if _, err := os.Stat(cmdCtx.Cfg.StatePath); err != nil {
			return nil
		}
	}

	store, closeStore, err := cmdCtx.openStateStore()
	if err != nil {
		cmdCtx.Logger.Debug("run history unavailable", "error", err.Error())
		return nil
	}
	defer closeStore()

	idx := make(map[string]string, len(lessons))
	for _, l := range lessons {
		run, err := store.LastRun(cmd.Context(), l.Slug)
		if err != nil || run == nil {
			continue
		}
		idx[l.Slug] = fmt.Sprintf("%s (%s)",
			run.Status, run.StartedAt.Local().Format("2006-01-02"))
	}
	return idx
}

func lastRunLabel(lastRuns map[string]string, slug string) string {
	if s, ok := lastRuns[slug]; ok {
		return s
	}
	return "never"
}

func listText(r *output.Renderer, lessons []*lesson.Lesson, lastRuns map[string]string) {
	r.Header(1, fmt.Sprintf("Lessons (%d total)", len(lessons)))

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Slug", "Title", "Topics", "Dialects", "Last Run"})
	for _, l := range lessons {
		t.AppendRow(table.Row{
			fmt.Sprintf("%02d", l.Number),
			l.Slug,
			l.Title,
			strings.Join(l.Topics, ", "),
			dialectLabel(l),
			lastRunLabel(lastRuns, l.Slug),
		})
	}
	t.Render()
}

func listMarkdown(r *output.Renderer, lessons []*lesson.Lesson, lastRuns map[string]string) {
	r.Header(1, fmt.Sprintf("Lessons (%d total)", len(lessons)))
	r.Println("| # | Slug | Title | Topics | Dialects | Last Run |")
	r.Println("| --- | --- | --- | --- | --- | --- |")
	for _, l := range lessons {
		r.Printf("| %02d | %s | %s | %s | %s | %s |\n",
			l.Number, l.Slug, l.Title, strings.Join(l.Topics, ", "),
			dialectLabel(l), lastRunLabel(lastRuns, l.Slug))
	}
}

func listJSON(r *output.Renderer, lessons []*lesson.Lesson, lastRuns map[string]string) error {
	type entry struct {
		Number   int      `json:"number"`
		Slug     string   `json:"slug"`
		Title    string   `json:"title"`
		Topics   []string `json:"topics"`
		Dialects []string `json:"dialects,omitempty"`
		Sections int      `json:"sections"`
		LastRun  string   `json:"last_run,omitempty"`
	}

	entries := make([]entry, 0, len(lessons))
	for _, l := range lessons {
		entries = append(entries, entry{
			Number:   l.Number,
			Slug:     l.Slug,
			Title:    l.Title,
			Topics:   l.Topics,
			Dialects: l.Dialects,
			Sections: len(l.Sections),
			LastRun:  lastRuns[l.Slug],
		})
	}

	enc := json.NewEncoder(r.Out())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func dialectLabel(l *lesson.Lesson) string {
	if len(l.Dialects) == 0 {
		return "any"
	}
	return strings.Join(l.Dialects, ", ")
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/lesson"
	"github.com/leapstack-labs/sqlcoach/internal/state"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var (
		keep    bool
		section string
	)

	cmd := &cobra.Command{
		Use:   "run [lesson...]",
		Short: "Run teaching lessons against the target database",
		Long: `Run one or more lessons by slug or number. Each lesson creates its
own tables, walks through labeled steps, and drops everything again
so re-runs always start clean.

Use "all" to run every lesson the target dialect supports.`,
		Example: `  # Run the CRUD lesson by slug
  sqlcoach run crud-cycle

  # Run lessons 1 and 3 by number
  sqlcoach run 1 3

  # Run everything the target supports, keeping the tables around
  sqlcoach run all --keep`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLessons(cmd, args, keep, section)
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "skip cleanup so tables can be inspected afterwards")
	cmd.Flags().StringVar(&section, "section", "", "only run sections whose title contains this text")
	return cmd
}

func runLessons(cmd *cobra.Command, args []string, keep bool, section string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	adp, _, disconnect, err := cmdCtx.connectTarget(ctx, "")
	if err != nil {
		return err
	}
	defer disconnect()
	dialect := adp.DialectName()

	lessons, err := resolveLessons(args, dialect)
	if err != nil {
		return err
	}

	// History recording is best effort; a broken state db must not
	// block the lesson itself.
	store, closeStore, storeErr := cmdCtx.openStateStore()
	if storeErr != nil {
		cmdCtx.Logger.Warn("run history disabled", "error", storeErr.Error())
	} else {
		defer closeStore()
	}

	runner := &lesson.Runner{
		DB:       adp.DB(),
		Renderer: cmdCtx.Renderer,
		Logger:   cmdCtx.Logger,
		Dialect:  dialect,
		Keep:     keep,
	}

	var failed []string
	for _, l := range lessons {
		if section != "" {
			l = filterSections(l, section)
			if len(l.Sections) == 0 {
				return fmt.Errorf("lesson %q has no section matching %q", l.Slug, section)
			}
		}

		res, runErr := runner.Run(ctx, l)
		if store != nil {
			recordRun(cmd, cmdCtx, store, res)
		}
		if runErr != nil {
			cmdCtx.Renderer.Error(fmt.Sprintf("lesson %s failed: %v", l.Slug, runErr))
			failed = append(failed, l.Slug)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d lessons failed: %s",
			len(failed), len(lessons), strings.Join(failed, ", "))
	}
	return nil
}

// resolveLessons maps refs to fresh instances. "all" expands to every
// lesson the dialect supports.
func resolveLessons(args []string, dialect string) ([]*lesson.Lesson, error) {
	if len(args) == 1 && args[0] == "all" {
		var lessons []*lesson.Lesson
		for _, l := range lesson.All() {
			if l.Supports(dialect) {
				lessons = append(lessons, l)
			}
		}
		if len(lessons) == 0 {
			return nil, fmt.Errorf("no lessons support dialect %q", dialect)
		}
		return lessons, nil
	}

	seen := make(map[string]bool)
	var lessons []*lesson.Lesson
	for _, ref := range args {
		l, ok := lesson.Get(ref)
		if !ok {
			return nil, fmt.Errorf("unknown lesson %q (see: sqlcoach list)", ref)
		}
		if seen[l.Slug] {
			continue
		}
		seen[l.Slug] = true
		lessons = append(lessons, l)
	}
	return lessons, nil
}

func filterSections(l *lesson.Lesson, needle string) *lesson.Lesson {
	needle = strings.ToLower(needle)
	filtered := *l
	filtered.Sections = nil
	for _, sec := range l.Sections {
		if strings.Contains(strings.ToLower(sec.Title), needle) {
			filtered.Sections = append(filtered.Sections, sec)
		}
	}
	return &filtered
}

func recordRun(cmd *cobra.Command, cmdCtx *CommandContext, store *state.Store, res *lesson.Result) {
	var errPtr *string
	if res.Error != "" {
		errPtr = &res.Error
	}
	_, err := store.SaveRun(cmd.Context(), state.LessonRun{
		Lesson:     res.Lesson,
		Target:     res.Dialect,
		Status:     res.Status,
		Error:      errPtr,
		StartedAt:  res.StartedAt,
		DurationMs: res.Duration.Milliseconds(),
	})
	if err != nil {
		cmdCtx.Logger.Warn("failed to record lesson run", "error", err.Error())
	}
}

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/lesson"
	"github.com/leapstack-labs/sqlcoach/pkg/style"
)

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	var (
		format   string
		disable  []string
		severity string
	)

	cmd := &cobra.Command{
		Use:   "lint [docs-dir]",
		Short: "Check guides and lesson SQL against the course conventions",
		Long: `Check the markdown guides and every registered lesson's SQL against
the writing conventions: ASCII-only text, line width, required
sections, the license notice, NULL comparisons, literal INSERT size,
and blocked constructs.

Exits non-zero when any error-severity finding remains.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, format, disable, severity)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json)")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "rule IDs to disable (e.g. DC02,SC03)")
	cmd.Flags().StringVar(&severity, "severity", "", "minimum severity to report (error|warning|hint)")
	return cmd
}

func runLint(cmd *cobra.Command, args []string, format string, disable []string, severity string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	checker := style.NewChecker(cmdCtx.Logger)
	applyLintConfig(checker, cmdCtx)
	checker.Disable(disable...)
	if severity != "" {
		checker.MinSeverity = style.ParseSeverity(severity)
	}

	docsDir := cmdCtx.Cfg.DocsDir
	if len(args) == 1 {
		docsDir = args[0]
	}

	diags, err := checker.CheckDocs(docsDir)
	if err != nil {
		return err
	}
	diags = append(diags, checker.CheckSQL(lessonInputs())...)

	switch format {
	case "json":
		enc := json.NewEncoder(r.Out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(diags); err != nil {
			return err
		}
	default:
		if len(diags) == 0 {
			r.Success("No conformance issues found.")
		}
		for _, d := range diags {
			loc := d.File
			if d.Line > 0 {
				loc = fmt.Sprintf("%s:%d", d.File, d.Line)
			}
			r.Printf("%-8s %-7s %s  %s\n", d.RuleID, d.Severity, loc, d.Message)
		}
	}

	if style.HasErrors(diags) {
		return fmt.Errorf("%d findings, errors present", len(diags))
	}
	return nil
}

// applyLintConfig overlays config-file lint settings onto the checker.
func applyLintConfig(checker *style.Checker, cmdCtx *CommandContext) {
	lc := cmdCtx.Cfg.Lint
	if lc == nil {
		return
	}
	if lc.MaxWidth > 0 {
		checker.Options.MaxWidth = lc.MaxWidth
	}
	if len(lc.RequiredSections) > 0 {
		checker.Options.RequiredSections = lc.RequiredSections
	}
	if lc.LicenseNotice != "" {
		checker.Options.LicenseNotice = lc.LicenseNotice
	}
	if lc.BlockedWords != nil {
		checker.Options.BlockedWords = lc.BlockedWords
	}
	if lc.InsertRowLimit > 0 {
		checker.Options.InsertRowLimit = lc.InsertRowLimit
	}
	checker.Disable(lc.Disable...)
	if lc.Severity != "" {
		checker.MinSeverity = style.ParseSeverity(lc.Severity)
	}
}

// lessonInputs extracts every registered lesson's SQL for checking.
func lessonInputs() []style.SQLInput {
	var inputs []style.SQLInput
	for _, l := range lesson.All() {
		for _, stmt := range l.SQLStatements() {
			inputs = append(inputs, style.SQLInput{
				Origin:  fmt.Sprintf("%s [%s]", l.Slug, stmt.Label),
				SQL:     stmt.SQL,
				Display: stmt.Display,
			})
		}
	}
	return inputs
}

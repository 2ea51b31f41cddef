package style

import "fmt"

func init() {
	RegisterDocRule(LineWidth)
}

// LineWidth enforces the narrow column the guides are written in.
var LineWidth = DocRule{
	ID:          "DC02",
	Name:        "doc.line_width",
	Description: "Guide lines must not exceed the configured width.",
	Severity:    SeverityWarning,
	Check:       checkLineWidth,
}

func checkLineWidth(doc Document, opts Options) []Diagnostic {
	max := opts.MaxWidth
	if max <= 0 {
		max = DefaultOptions().MaxWidth
	}

	var diags []Diagnostic
	for i, line := range doc.Lines {
		if n := len([]rune(line)); n > max {
			diags = append(diags, Diagnostic{
				RuleID:   "DC02",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("line is %d characters, limit is %d", n, max),
				File:     doc.Path,
				Line:     i + 1,
			})
		}
	}
	return diags
}

package style

import "strings"

func init() {
	RegisterDocRule(RequiredSections)
}

// RequiredSections checks that every guide carries the standard
// headings so learners always find the same structure.
var RequiredSections = DocRule{
	ID:          "DC03",
	Name:        "doc.required_sections",
	Description: "Guide documents must contain the required H2 sections.",
	Severity:    SeverityError,
	Check:       checkRequiredSections,
}

func checkRequiredSections(doc Document, opts Options) []Diagnostic {
	required := opts.RequiredSections
	if len(required) == 0 {
		required = DefaultOptions().RequiredSections
	}

	found := make(map[string]bool)
	for _, line := range doc.Lines {
		if heading, ok := strings.CutPrefix(line, "## "); ok {
			found[strings.TrimSpace(heading)] = true
		}
	}

	var diags []Diagnostic
	for _, section := range required {
		if !found[section] {
			diags = append(diags, Diagnostic{
				RuleID:   "DC03",
				Severity: SeverityError,
				Message:  "missing required section \"" + section + "\"",
				File:     doc.Path,
			})
		}
	}
	return diags
}

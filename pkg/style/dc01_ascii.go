package style

import (
	"fmt"
	"unicode"
)

func init() {
	RegisterDocRule(ASCIIOnly)
}

// ASCIIOnly keeps guide documents free of non-ASCII characters so
// transcripts render identically in every terminal and diff tool.
var ASCIIOnly = DocRule{
	ID:          "DC01",
	Name:        "doc.ascii_only",
	Description: "Guide documents must contain only printable ASCII characters.",
	Severity:    SeverityError,
	Check:       checkASCIIOnly,
}

func checkASCIIOnly(doc Document, _ Options) []Diagnostic {
	var diags []Diagnostic
	for i, line := range doc.Lines {
		for _, r := range line {
			msg := ""
			switch {
			case r > unicode.MaxASCII:
				msg = fmt.Sprintf("non-ASCII character %q", r)
			case !unicode.IsPrint(r) && r != '\t':
				msg = fmt.Sprintf("non-printable character %q", r)
			default:
				continue
			}
			diags = append(diags, Diagnostic{
				RuleID:   "DC01",
				Severity: SeverityError,
				Message:  msg,
				File:     doc.Path,
				Line:     i + 1,
			})
			break // one finding per line is enough
		}
	}
	return diags
}

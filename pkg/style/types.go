// Package style checks guideline documents and lesson SQL against the
// course writing conventions. Rules register themselves by ID; the
// checker walks markdown files and extracted SQL statements and
// reports diagnostics.
package style

import "strings"

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

// Rank orders severities, highest first, for threshold filtering.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityHint:
		return 1
	default:
		return 0
	}
}

// ParseSeverity normalizes a severity string, defaulting to hint so an
// unknown threshold never hides findings.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	default:
		return SeverityHint
	}
}

// Diagnostic is one conformance finding.
type Diagnostic struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
}

// Document is a markdown guide loaded for checking.
type Document struct {
	Path  string
	Lines []string
}

// SQLInput is one extracted lesson statement.
type SQLInput struct {
	// Origin identifies where the statement came from, e.g.
	// "crud-cycle [1-2]".
	Origin string
	SQL    string

	// Display marks result-grid queries, where SELECT * is allowed.
	Display bool
}

// Options carries rule configuration resolved from config and flags.
type Options struct {
	// MaxWidth is the document line width limit (DC02).
	MaxWidth int
	// RequiredSections are H2 headings every guide must carry (DC03).
	RequiredSections []string
	// LicenseNotice is the string every guide footer must contain (DC04).
	LicenseNotice string
	// BlockedWords flag discouraged constructs in lesson SQL (SC04).
	BlockedWords []string
	// InsertRowLimit is the literal VALUES row count above which a
	// batch bind is expected (SC03).
	InsertRowLimit int
}

// DefaultOptions returns the course defaults.
func DefaultOptions() Options {
	return Options{
		MaxWidth:         74,
		RequiredSections: []string{"Purpose", "Rules"},
		LicenseNotice:    "CC BY-NC 4.0",
		BlockedWords:     []string{"SELECT *"},
		InsertRowLimit:   3,
	}
}

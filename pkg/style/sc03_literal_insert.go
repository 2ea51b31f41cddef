package style

import (
	"fmt"
	"regexp"
	"strings"
)

func init() {
	RegisterSQLRule(LiteralInsert)
}

var valuesRe = regexp.MustCompile(`(?is)\bVALUES\b(.*)`)

// LiteralInsert flags INSERT statements that spell out many literal
// rows inline. Past the configured limit the course convention is a
// parameterized batch insert.
var LiteralInsert = SQLRule{
	ID:          "SC03",
	Name:        "sql.literal_insert",
	Description: "Large literal INSERTs should use a parameterized batch insert.",
	Severity:    SeverityWarning,
	Check:       checkLiteralInsert,
}

func checkLiteralInsert(in SQLInput, opts Options) []Diagnostic {
	limit := opts.InsertRowLimit
	if limit <= 0 {
		limit = DefaultOptions().InsertRowLimit
	}

	m := valuesRe.FindStringSubmatch(in.SQL)
	if m == nil {
		return nil
	}
	tail := m[1]

	// Parameterized rows are exactly what the rule asks for.
	if strings.Contains(tail, "?") {
		return nil
	}

	rows := countValueGroups(tail)
	if rows < limit {
		return nil
	}
	return []Diagnostic{{
		RuleID:   "SC03",
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("%d literal rows in one INSERT; use a batch insert", rows),
		File:     in.Origin,
	}}
}

// countValueGroups counts top-level parenthesized groups in a VALUES
// tail, ignoring nesting and quoted text.
func countValueGroups(s string) int {
	depth, groups := 0, 0
	inString := false
	for _, r := range s {
		switch {
		case r == '\'':
			inString = !inString
		case inString:
		case r == '(':
			if depth == 0 {
				groups++
			}
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			return groups
		}
	}
	return groups
}

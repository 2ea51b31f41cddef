package style

import "strings"

func init() {
	RegisterSQLRule(BlockedWords)
}

// BlockedWords flags configured constructs in lesson SQL. The default
// list holds SELECT *, which is fine in result-grid display queries
// but not in statements whose columns the learner depends on.
var BlockedWords = SQLRule{
	ID:          "SC04",
	Name:        "sql.blocked_words",
	Description: "Lesson SQL must not contain blocked constructs.",
	Severity:    SeverityWarning,
	Check:       checkBlockedWords,
}

func checkBlockedWords(in SQLInput, opts Options) []Diagnostic {
	words := opts.BlockedWords
	if words == nil {
		words = DefaultOptions().BlockedWords
	}

	upper := strings.ToUpper(in.SQL)
	var diags []Diagnostic
	for _, w := range words {
		if w == "" {
			continue
		}
		if in.Display && strings.EqualFold(w, "SELECT *") {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(w)) {
			diags = append(diags, Diagnostic{
				RuleID:   "SC04",
				Severity: SeverityWarning,
				Message:  "blocked construct \"" + w + "\"",
				File:     in.Origin,
			})
		}
	}
	return diags
}

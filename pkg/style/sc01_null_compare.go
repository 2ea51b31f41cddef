package style

import "regexp"

func init() {
	RegisterSQLRule(NullCompare)
}

// = NULL never matches anything; only IS NULL / IS NOT NULL test for
// missing values.
var nullCompareRe = regexp.MustCompile(`(?i)(?:!=|<>|=)\s*NULL\b`)

// NullCompare flags equality comparisons against NULL.
var NullCompare = SQLRule{
	ID:          "SC01",
	Name:        "sql.null_compare",
	Description: "Use IS NULL / IS NOT NULL instead of comparing with = NULL.",
	Severity:    SeverityError,
	Check:       checkNullCompare,
}

func checkNullCompare(in SQLInput, _ Options) []Diagnostic {
	if !nullCompareRe.MatchString(in.SQL) {
		return nil
	}
	return []Diagnostic{{
		RuleID:   "SC01",
		Severity: SeverityError,
		Message:  "comparison with NULL using =/!=; use IS NULL or IS NOT NULL",
		File:     in.Origin,
	}}
}

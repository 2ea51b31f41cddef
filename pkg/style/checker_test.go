package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlcoach/internal/testutil"
)

const conformingDoc = `# Example Guide

## Purpose

Explains things.

## Rules

- Keep lines short.

Licensed under CC BY-NC 4.0.
`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ruleIDs(diags []Diagnostic) []string {
	var ids []string
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

func TestCheckDocsConforming(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "style.md", conformingDoc)

	c := NewChecker(testutil.NewTestLogger(t))
	diags, err := c.CheckDocs(dir)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestCheckDocsFindings(t *testing.T) {
	dir := t.TempDir()
	wide := strings.Repeat("x", 80)
	writeDoc(t, dir, "bad.md", "# Bad Guide\n\nnaïve text\n"+wide+"\n")

	c := NewChecker(testutil.NewTestLogger(t))
	diags, err := c.CheckDocs(dir)
	require.NoError(t, err)

	ids := ruleIDs(diags)
	assert.Contains(t, ids, "DC01") // non-ASCII
	assert.Contains(t, ids, "DC02") // over width
	assert.Contains(t, ids, "DC03") // missing sections
	assert.Contains(t, ids, "DC04") // missing license
}

func TestASCIIRuleFlagsControlCharacters(t *testing.T) {
	doc := Document{
		Path: "ctl.md",
		Lines: []string{
			"# Fine",
			"backspace\x08here",
			"tabs\tare\tfine",
		},
	}

	diags := ASCIIOnly.Check(doc, DefaultOptions())
	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].Line)
	assert.Contains(t, diags[0].Message, "non-printable")
}

func TestCheckDocsLineNumbers(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "bad.md", "# T\n\ncafé\n")

	c := NewChecker(testutil.NewTestLogger(t))
	diags, err := c.CheckDocs(dir)
	require.NoError(t, err)

	for _, d := range diags {
		if d.RuleID == "DC01" {
			assert.Equal(t, 3, d.Line)
			return
		}
	}
	t.Fatal("expected a DC01 finding")
}

func TestCheckerDisable(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "bad.md", "# T\n\ncafé\n")

	c := NewChecker(testutil.NewTestLogger(t))
	c.Disable("dc01", "DC03", "DC04")
	diags, err := c.CheckDocs(dir)
	require.NoError(t, err)

	ids := ruleIDs(diags)
	assert.NotContains(t, ids, "DC01")
	assert.NotContains(t, ids, "DC03")
	assert.NotContains(t, ids, "DC04")
}

func TestCheckerSeverityThreshold(t *testing.T) {
	dir := t.TempDir()
	wide := strings.Repeat("x", 80)
	writeDoc(t, dir, "bad.md", conformingDoc+wide+"\n")

	c := NewChecker(testutil.NewTestLogger(t))
	c.MinSeverity = SeverityError
	diags, err := c.CheckDocs(dir)
	require.NoError(t, err)

	// DC02 is a warning and must be filtered out.
	assert.NotContains(t, ruleIDs(diags), "DC02")
}

func TestCheckSQL(t *testing.T) {
	tests := []struct {
		name    string
		input   SQLInput
		wantIDs []string
	}{
		{
			name:    "null equality",
			input:   SQLInput{Origin: "x [1-1]", SQL: "SELECT id FROM t WHERE deleted = NULL;"},
			wantIDs: []string{"SC01"},
		},
		{
			name:    "null not-equal",
			input:   SQLInput{Origin: "x [1-2]", SQL: "SELECT id FROM t WHERE deleted != NULL;"},
			wantIDs: []string{"SC01"},
		},
		{
			name:  "is null is fine",
			input: SQLInput{Origin: "x [1-3]", SQL: "SELECT id FROM t WHERE deleted IS NULL;"},
		},
		{
			name: "large literal insert",
			input: SQLInput{Origin: "x [2-1]", SQL: `
				INSERT INTO t (a) VALUES ('a'), ('b'), ('c'), ('d');`},
			wantIDs: []string{"SC03"},
		},
		{
			name: "parameterized insert is fine",
			input: SQLInput{Origin: "x [2-2]",
				SQL: "INSERT INTO t (a, b) VALUES (?, ?);"},
		},
		{
			name: "small literal insert is fine",
			input: SQLInput{Origin: "x [2-3]",
				SQL: "INSERT INTO t (a) VALUES ('a'), ('b');"},
		},
		{
			name:    "select star in working statement",
			input:   SQLInput{Origin: "x [3-1]", SQL: "CREATE VIEW v AS SELECT * FROM t;"},
			wantIDs: []string{"SC04"},
		},
		{
			name:  "select star in display query",
			input: SQLInput{Origin: "x [3-2]", SQL: "SELECT * FROM t;", Display: true},
		},
	}

	c := NewChecker(testutil.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := c.CheckSQL([]SQLInput{tt.input})
			assert.Equal(t, tt.wantIDs, ruleIDs(diags))
		})
	}
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Diagnostic{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]Diagnostic{
		{Severity: SeverityWarning},
		{Severity: SeverityError},
	}))
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, ParseSeverity("ERROR"))
	assert.Equal(t, SeverityWarning, ParseSeverity("warn"))
	assert.Equal(t, SeverityHint, ParseSeverity("anything"))
}

package style

import (
	"sort"
	"sync"
)

// DocRule checks one loaded guide document.
type DocRule struct {
	ID          string
	Name        string
	Description string
	Severity    Severity
	Check       func(doc Document, opts Options) []Diagnostic
}

// SQLRule checks one extracted lesson statement.
type SQLRule struct {
	ID          string
	Name        string
	Description string
	Severity    Severity
	Check       func(in SQLInput, opts Options) []Diagnostic
}

var (
	registryMu sync.RWMutex
	docRules   = make(map[string]DocRule)
	sqlRules   = make(map[string]SQLRule)
)

// RegisterDocRule adds a document rule to the registry.
// Call this from init() functions in rule files.
func RegisterDocRule(r DocRule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	docRules[r.ID] = r
}

// RegisterSQLRule adds a SQL rule to the registry.
func RegisterSQLRule(r SQLRule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	sqlRules[r.ID] = r
}

// DocRules returns registered document rules ordered by ID.
func DocRules() []DocRule {
	registryMu.RLock()
	defer registryMu.RUnlock()

	rules := make([]DocRule, 0, len(docRules))
	for _, r := range docRules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// SQLRules returns registered SQL rules ordered by ID.
func SQLRules() []SQLRule {
	registryMu.RLock()
	defer registryMu.RUnlock()

	rules := make([]SQLRule, 0, len(sqlRules))
	for _, r := range sqlRules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

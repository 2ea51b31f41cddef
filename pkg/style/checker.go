package style

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Checker applies registered rules with shared options.
type Checker struct {
	Options  Options
	Disabled map[string]bool
	// MinSeverity drops findings below the threshold.
	MinSeverity Severity
	Logger      *slog.Logger
}

// NewChecker returns a checker with default options.
func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{
		Options:     DefaultOptions(),
		Disabled:    make(map[string]bool),
		MinSeverity: SeverityHint,
		Logger:      logger,
	}
}

// Disable turns the given rule IDs off.
func (c *Checker) Disable(ids ...string) {
	for _, id := range ids {
		c.Disabled[strings.ToUpper(strings.TrimSpace(id))] = true
	}
}

func (c *Checker) keep(d Diagnostic) bool {
	return d.Severity.Rank() >= c.MinSeverity.Rank()
}

// CheckDocs walks dir for markdown files and applies document rules,
// one goroutine per file.
func (c *Checker) CheckDocs(dir string) ([]Diagnostic, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		diags []Diagnostic
	)
	var g errgroup.Group
	for _, path := range paths {
		g.Go(func() error {
			doc, err := loadDocument(path)
			if err != nil {
				return err
			}
			found := c.checkDocument(doc)
			mu.Lock()
			diags = append(diags, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortDiagnostics(diags)
	return diags, nil
}

func (c *Checker) checkDocument(doc Document) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range DocRules() {
		if c.Disabled[rule.ID] {
			continue
		}
		for _, d := range rule.Check(doc, c.Options) {
			if c.keep(d) {
				diags = append(diags, d)
			}
		}
	}
	c.Logger.Debug("checked document",
		slog.String("path", doc.Path), slog.Int("findings", len(diags)))
	return diags
}

// CheckSQL applies SQL rules to extracted lesson statements.
func (c *Checker) CheckSQL(inputs []SQLInput) []Diagnostic {
	var diags []Diagnostic
	for _, in := range inputs {
		for _, rule := range SQLRules() {
			if c.Disabled[rule.ID] {
				continue
			}
			for _, d := range rule.Check(in, c.Options) {
				if c.keep(d) {
					diags = append(diags, d)
				}
			}
		}
	}
	sortDiagnostics(diags)
	return diags
}

// HasErrors reports whether any diagnostic is error severity, which
// drives the lint command's exit code.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func loadDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Document{Path: path, Lines: lines}, nil
}

func sortDiagnostics(diags []Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}

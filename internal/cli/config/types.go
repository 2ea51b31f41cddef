// Package config provides configuration management for the sqlcoach
// CLI. Settings come from defaults, sqlcoach.yaml, SQLCOACH_ prefixed
// environment variables, and flags, in increasing precedence.
package config

import "github.com/leapstack-labs/sqlcoach/internal/adapter"

// TargetConfig describes one named database target.
type TargetConfig struct {
	Type     string            `koanf:"type"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Path     string            `koanf:"path"`
	Options  map[string]string `koanf:"options"`
}

// LintConfig holds conformance checker settings.
type LintConfig struct {
	MaxWidth         int      `koanf:"max_width"`
	RequiredSections []string `koanf:"required_sections"`
	LicenseNotice    string   `koanf:"license_notice"`
	BlockedWords     []string `koanf:"blocked_words"`
	InsertRowLimit   int      `koanf:"insert_row_limit"`
	Disable          []string `koanf:"disable"`
	Severity         string   `koanf:"severity"`
}

// Config holds all CLI configuration options.
type Config struct {
	DocsDir      string                  `koanf:"docs_dir"`
	StatePath    string                  `koanf:"state_path"`
	Target       string                  `koanf:"target"`
	Verbose      bool                    `koanf:"verbose"`
	OutputFormat string                  `koanf:"output"`
	Targets      map[string]TargetConfig `koanf:"targets"`
	Lint         *LintConfig             `koanf:"lint"`
}

// Default configuration values.
const (
	DefaultDocsDir   = "docs"
	DefaultStateFile = ".sqlcoach/state.db"
	DefaultTarget    = "local"
	DefaultOutput    = "auto" // TTY=text, non-TTY=markdown
)

// DefaultTargetConfig is the out-of-the-box local PostgreSQL target.
func DefaultTargetConfig() TargetConfig {
	return TargetConfig{
		Type:     "postgres",
		Host:     "localhost",
		Port:     5432,
		Database: "sqlcoach",
		Username: "postgres",
	}
}

// AdapterConfig converts a target into an adapter connection config.
func (t TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     t.Type,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.Username,
		Password: t.Password,
		Options:  t.Options,
	}
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const configTemplate = `# SQLCoach configuration.
# Values here are overridden by SQLCOACH_* environment variables
# and by command-line flags.

docs_dir: docs
state_path: .sqlcoach/state.db
target: local
output: auto

targets:
  local:
    type: postgres
    host: localhost
    port: 5432
    database: sqlcoach
    username: postgres
    password: ${PGPASSWORD}
  # scratch:
  #   type: duckdb
  #   path: scratch.duckdb

lint:
  max_width: 74
  required_sections:
    - Purpose
    - Rules
  # disable:
  #   - SC04
`

const starterDoc = `# Course Notes

## Purpose

Keep working notes for the lesson material in this directory.
Every document here is checked by the sqlcoach lint command.

## Rules

- Keep lines at 74 characters or fewer.
- Use plain ASCII text.
- Include the license notice below in every document.

Licensed under CC BY-NC 4.0.
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a SQLCoach workspace",
		Long: `Initialize a SQLCoach workspace with a configuration file and a
docs directory for lesson notes.

This creates:
  - sqlcoach.yaml configuration file
  - docs/ directory with a starter notes document`,
		Example: `  # Initialize in the current directory
  sqlcoach init

  # Initialize in a new directory
  sqlcoach init my-course

  # Overwrite an existing configuration
  sqlcoach init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "sqlcoach.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("sqlcoach.yaml already exists. Use --force to overwrite")
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0750); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	notesPath := filepath.Join(docsDir, "notes.md")
	if _, err := os.Stat(notesPath); os.IsNotExist(err) || force {
		if err := os.WriteFile(notesPath, []byte(starterDoc), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", notesPath, err)
		}
	}

	r.Println(configPath)
	r.Println(notesPath)
	r.Println("")
	r.Success("SQLCoach workspace initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Point the local target at your PostgreSQL server")
	r.Println("  2. Run 'sqlcoach list' to see the lesson roster")
	r.Println("  3. Run 'sqlcoach run 1' to start the first lesson")
	r.Println("  4. Run 'sqlcoach lint' to check the docs directory")

	return nil
}

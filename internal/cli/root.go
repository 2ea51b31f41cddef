// Package cli provides the command-line interface for SQLCoach.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlcoach/internal/cli/commands"
	"github.com/leapstack-labs/sqlcoach/internal/cli/config"
	_ "github.com/leapstack-labs/sqlcoach/internal/lesson/catalog"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlcoach",
		Short: "SQLCoach - Guided PostgreSQL lessons",
		Long: `SQLCoach is an interactive SQL teaching tool built with Go.

It runs numbered lessons against a live PostgreSQL (or DuckDB)
database, showing every statement and its result as it executes,
and records each run in a local history database.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			if cfg.Verbose {
				if configFile := config.ConfigFileUsed(); configFile != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Using target: %s\n", cfg.Target)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Guided PostgreSQL lessons built with Go
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlcoach.yaml)")
	rootCmd.PersistentFlags().StringP("target", "t", "", "Target database to use (e.g., local, staging)")
	rootCmd.PersistentFlags().String("docs-dir", "", "Path to the docs directory")
	rootCmd.PersistentFlags().String("state-path", "", "Path to the run history database")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		targets := make([]string, 0, len(config.Current().Targets))
		for name := range config.Current().Targets {
			targets = append(targets, name)
		}
		if len(targets) == 0 {
			targets = []string{"local"}
		}
		return targets, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for SQLCoach.

To load completions:

Bash:
  $ source <(sqlcoach completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlcoach completion bash > /etc/bash_completion.d/sqlcoach
  # macOS:
  $ sqlcoach completion bash > $(brew --prefix)/etc/bash_completion.d/sqlcoach

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sqlcoach completion zsh > "${fpath[1]}/_sqlcoach"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sqlcoach completion fish | source

  # To load completions for each session, execute once:
  $ sqlcoach completion fish > ~/.config/fish/completions/sqlcoach.fish

PowerShell:
  PS> sqlcoach completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sqlcoach completion powershell > sqlcoach.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

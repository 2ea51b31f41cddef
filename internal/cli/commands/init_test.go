package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlcoach/internal/cli/config"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:    "init empty directory",
			args:    []string{},
			wantErr: false,
			wantFiles: []string{
				"sqlcoach.yaml",
				"docs",
				"docs/notes.md",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "sqlcoach.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "sqlcoach.yaml"), []byte("existing"), 0600)
			},
			args:    []string{"--force"},
			wantErr: false,
			wantFiles: []string{
				"sqlcoach.yaml",
				"docs",
			},
		},
		{
			name:    "init named directory",
			args:    []string{"course"},
			wantErr: false,
			wantFiles: []string{
				"course/sqlcoach.yaml",
				"course/docs/notes.md",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			oldWd, _ := os.Getwd()
			require.NoError(t, os.Chdir(tmpDir))
			defer func() { _ = os.Chdir(oldWd) }()

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file/dir %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	config.Reset()
	t.Cleanup(config.Reset)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	require.NoError(t, err)

	// The scaffold must survive a round trip through the loader, key
	// names included.
	cfg, err := config.Load("sqlcoach.yaml", nil)
	require.NoError(t, err, "scaffolded config should load cleanly")

	assert.Equal(t, "docs", cfg.DocsDir)
	assert.Equal(t, ".sqlcoach/state.db", cfg.StatePath)
	assert.Equal(t, "local", cfg.Target)

	local, err := cfg.ResolveTarget("local")
	require.NoError(t, err)
	assert.Equal(t, "postgres", local.Type)
	assert.Equal(t, "localhost", local.Host)
	assert.Equal(t, 5432, local.Port)
	assert.Equal(t, "sqlcoach", local.Database)
	assert.Equal(t, "postgres", local.Username)

	require.NotNil(t, cfg.Lint)
	assert.Equal(t, 74, cfg.Lint.MaxWidth)
	assert.Equal(t, []string{"Purpose", "Rules"}, cfg.Lint.RequiredSections)
}

func TestInitStarterDocPassesLint(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	initCmd := NewInitCommand()
	initCmd.SetOut(new(bytes.Buffer))
	initCmd.SetErr(new(bytes.Buffer))
	require.NoError(t, initCmd.Execute())

	lintCmd := NewLintCommand()
	buf := new(bytes.Buffer)
	lintCmd.SetOut(buf)
	lintCmd.SetErr(buf)
	lintCmd.SetArgs([]string{"docs"})

	assert.NoError(t, lintCmd.Execute(), "starter doc should lint clean: %s", buf.String())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlcoach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDocsDir, cfg.DocsDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultTarget, cfg.Target)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
state_path: /tmp/history.db
target: ci
targets:
  ci:
    type: postgres
    host: db.internal
    port: 5433
    database: coach_ci
    username: coach
lint:
  max_width: 80
  disable: [DC02]
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/history.db", cfg.StatePath)
	assert.Equal(t, "ci", cfg.Target)

	tgt, err := cfg.ResolveTarget("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", tgt.Type)
	assert.Equal(t, "db.internal", tgt.Host)
	assert.Equal(t, 5433, tgt.Port)

	require.NotNil(t, cfg.Lint)
	assert.Equal(t, 80, cfg.Lint.MaxWidth)
	assert.Equal(t, []string{"DC02"}, cfg.Lint.Disable)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "state_path: from-file.db\n")
	t.Setenv("SQLCOACH_STATE_PATH", "from-env.db")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.StatePath)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SQLCOACH_TARGET", "env-target")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("target", "", "")
	require.NoError(t, flags.Parse([]string{"--target", "local"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Target)
}

func TestLoadUnchangedFlagIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("target", "flag-default", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultTarget, cfg.Target)
}

func TestEnvVarExpansionInTargets(t *testing.T) {
	t.Setenv("COACH_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
targets:
  ci:
    type: postgres
    host: localhost
    password: ${COACH_DB_PASSWORD}
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	tgt, err := cfg.ResolveTarget("ci")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", tgt.Password)
}

func TestEnvVarExpansionUnsetKept(t *testing.T) {
	path := writeConfig(t, `
targets:
  ci:
    type: postgres
    password: ${DEFINITELY_NOT_SET_VAR}
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	tgt, err := cfg.ResolveTarget("ci")
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_NOT_SET_VAR}", tgt.Password)
}

func TestResolveTarget(t *testing.T) {
	cfg := &Config{Target: DefaultTarget}

	tgt, err := cfg.ResolveTarget("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetConfig(), tgt)

	_, err = cfg.ResolveTarget("missing")
	assert.Error(t, err)
}

func TestValidateUnknownAdapter(t *testing.T) {
	path := writeConfig(t, `
targets:
  weird:
    type: oracle
`)
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestValidateOutputFormat(t *testing.T) {
	path := writeConfig(t, "output: fancy\n")
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

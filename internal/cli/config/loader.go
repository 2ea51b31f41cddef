package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/sqlcoach/internal/adapter"
)

var (
	configFileUsed string
	currentConfig  *Config
)

// ConfigFileUsed returns the config file the last load read, if any.
func ConfigFileUsed() string { return configFileUsed }

// Current returns the configuration loaded by the last Load call, or
// defaults when nothing has been loaded yet.
func Current() *Config {
	if currentConfig != nil {
		return currentConfig
	}
	return &Config{
		DocsDir:      DefaultDocsDir,
		StatePath:    DefaultStateFile,
		Target:       DefaultTarget,
		OutputFormat: DefaultOutput,
	}
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sqlcoach.yaml > sqlcoach.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"sqlcoach.yaml", "sqlcoach.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config
// file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"docs_dir":   DefaultDocsDir,
		"state_path": DefaultStateFile,
		"target":     DefaultTarget,
		"verbose":    false,
		"output":     DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: SQLCOACH_STATE_PATH -> state_path
	if err := k.Load(env.Provider("SQLCOACH_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SQLCOACH_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, highest priority
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	expandTargets(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	currentConfig = &cfg
	return &cfg, nil
}

// Reset clears the loaded configuration. Used in tests.
func Reset() {
	configFileUsed = ""
	currentConfig = nil
}

// ResolveTarget returns the named target, or the current default. An
// unconfigured "local" target falls back to the built-in local
// PostgreSQL settings.
func (c *Config) ResolveTarget(name string) (TargetConfig, error) {
	if name == "" {
		name = c.Target
	}
	if name == "" {
		name = DefaultTarget
	}

	if t, ok := c.Targets[name]; ok {
		return t, nil
	}
	if name == DefaultTarget {
		return DefaultTargetConfig(), nil
	}

	known := make([]string, 0, len(c.Targets))
	for k := range c.Targets {
		known = append(known, k)
	}
	return TargetConfig{}, fmt.Errorf("unknown target %q (configured targets: %s)",
		name, strings.Join(known, ", "))
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnvVars substitutes ${VAR} references so credentials can stay
// out of the config file.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

func expandTargets(cfg *Config) {
	for name, t := range cfg.Targets {
		t.Host = expandEnvVars(t.Host)
		t.Database = expandEnvVars(t.Database)
		t.Username = expandEnvVars(t.Username)
		t.Password = expandEnvVars(t.Password)
		t.Path = expandEnvVars(t.Path)
		cfg.Targets[name] = t
	}
}

func validate(cfg *Config) error {
	for name, t := range cfg.Targets {
		if t.Type == "" {
			return fmt.Errorf("target %q: type is required", name)
		}
		if !adapter.IsRegistered(t.Type) {
			return fmt.Errorf("target %q: unknown adapter type %q (available: %s)",
				name, t.Type, strings.Join(adapter.ListAdapters(), ", "))
		}
	}

	switch cfg.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q (valid: auto, text, markdown, json)",
			cfg.OutputFormat)
	}
	return nil
}

package config

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todolist-go/internal/logging"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todolist/todolist.toml or OS-specific config dir)
// 3. Project config file (todolist.toml or .todolist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := cws.loadConfigFile(path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := cws.loadConfigFile(path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Environment
	loadFromEnv(cfg, cws.Sources)

	// 5. CLI flags
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes a TOML file over the current config. Only keys
// present in the file change, and only those are attributed to source.
func (cws *ConfigWithSources) loadConfigFile(path string, source ConfigSource) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), cws.Config)
	if err != nil {
		return err
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			cws.Sources[field] = source
		}
	}
	for _, key := range md.Undecoded() {
		cws.Warnings = append(cws.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	cws.Files = append(cws.Files, path)
	return nil
}

// finalizeConfig resolves paths and validates values.
func finalizeConfig(cfg *Config) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	cfg.ProjectRoot = root

	if strings.TrimSpace(cfg.TasksFile) == "" {
		cfg.TasksFile = DefaultTasksFile
	}
	cfg.TasksFile = resolvePath(cfg.TasksFile, root)
	cfg.LogFile = resolvePath(cfg.LogFile, root)
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	return cfg.Validate()
}

// Validate reports the first invalid value in cfg.
func (cfg *Config) Validate() error {
	if !slices.Contains(Themes, cfg.Theme) {
		return fmt.Errorf("invalid theme %q: must be one of %s", cfg.Theme, strings.Join(Themes, ", "))
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q: must be text, json or logfmt", cfg.LogFormat)
	}
	switch cfg.Format {
	case "", "auto", "lines", "line", "text", "txt", "json":
	default:
		return fmt.Errorf("invalid format %q: must be lines or json", cfg.Format)
	}
	return nil
}

package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings collects non-fatal problems such as unknown keys.
	Warnings []string
}

// Default values.
const (
	DefaultTasksFile = "tasks.txt"
	DefaultTheme     = "dark"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Themes lists the accepted theme names.
var Themes = []string{"dark", "light"}

// Config holds the full configuration for todolist.
type Config struct {
	// Task file
	TasksFile string `toml:"tasks_file"`
	Format    string `toml:"format"` // lines, json, or empty to detect from the extension
	Strict    bool   `toml:"strict"` // isolate records with malformed priority or due date

	// Presentation
	Theme string `toml:"theme"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"tasks_file",
		"format",
		"strict",
		"theme",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_file",
	}
}

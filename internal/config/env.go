package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvTasksFile     = "TODOLIST_FILE"
	EnvFormat        = "TODOLIST_FORMAT"
	EnvStrict        = "TODOLIST_STRICT"
	EnvTheme         = "TODOLIST_THEME"
	EnvLogLevel      = "TODOLIST_LOG_LEVEL"
	EnvLogFormat     = "TODOLIST_LOG_FORMAT"
	EnvLogTimestamps = "TODOLIST_LOG_TIMESTAMPS"
	EnvLogCaller     = "TODOLIST_LOG_CALLER"
	EnvLogFile       = "TODOLIST_LOG_FILE"
)

// loadFromEnv overrides config from environment variables and records
// each override in sources.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	str := func(env, field string, target *string) {
		if v, ok := os.LookupEnv(env); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
			setSource(sources, field, SourceEnv)
		}
	}
	boolean := func(env, field string, target *bool) {
		if v, ok := os.LookupEnv(env); ok && strings.TrimSpace(v) != "" {
			*target = boolFromString(v)
			setSource(sources, field, SourceEnv)
		}
	}

	str(EnvTasksFile, "tasks_file", &cfg.TasksFile)
	str(EnvFormat, "format", &cfg.Format)
	boolean(EnvStrict, "strict", &cfg.Strict)
	str(EnvTheme, "theme", &cfg.Theme)
	str(EnvLogLevel, "log_level", &cfg.LogLevel)
	str(EnvLogFormat, "log_format", &cfg.LogFormat)
	boolean(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	boolean(EnvLogCaller, "log_caller", &cfg.LogCaller)
	str(EnvLogFile, "log_file", &cfg.LogFile)
}

func setSource(sources map[string]ConfigSource, field string, source ConfigSource) {
	if sources != nil {
		sources[field] = source
	}
}

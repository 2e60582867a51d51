package config

import (
	"flag"
)

// flagFields maps global flag names to config field names.
var flagFields = map[string]string{
	"file":           "tasks_file",
	"format":         "format",
	"strict":         "strict",
	"theme":          "theme",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"log-file":       "log_file",
}

// parseFlags defines the global flags on fs, parses args and records every
// explicitly set flag in sources. Flag defaults are the values resolved so
// far, so unset flags keep them.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	fs.StringVar(&cfg.TasksFile, "file", cfg.TasksFile, "Path to the task file")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Task file format: lines or json (default: from extension)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Isolate records with invalid priority or due date on load")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "TUI theme: dark or light")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			setSource(sources, field, SourceFlag)
		}
	})
	return nil
}

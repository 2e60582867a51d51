package cmd

import (
	"fmt"
	"strconv"

	"github.com/nibzard/todolist-go/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(e *env, args []string) error {
	fs := newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := e.cfg
	files := e.sources.Files
	if len(files) == 0 {
		fmt.Fprintln(stdout, "Config files: (none)")
	} else {
		fmt.Fprintln(stdout, "Config files:")
		for _, f := range files {
			fmt.Fprintf(stdout, "  %s\n", f)
		}
	}
	fmt.Fprintln(stdout)

	rows := []struct {
		key   string
		value string
	}{
		{"tasks_file", strconv.Quote(cfg.TasksFile)},
		{"format", strconv.Quote(cfg.Format)},
		{"strict", strconv.FormatBool(cfg.Strict)},
		{"theme", strconv.Quote(cfg.Theme)},
		{"log_level", strconv.Quote(cfg.LogLevel)},
		{"log_format", strconv.Quote(cfg.LogFormat)},
		{"log_timestamps", strconv.FormatBool(cfg.LogTimestamps)},
		{"log_caller", strconv.FormatBool(cfg.LogCaller)},
		{"log_file", strconv.Quote(cfg.LogFile)},
	}
	for _, r := range rows {
		fmt.Fprintf(stdout, "%-15s = %-40s # %s\n", r.key, r.value, e.sources.Sources[r.key])
	}
	for _, w := range e.sources.Warnings {
		fmt.Fprintf(stdout, "\n⚠️  %s\n", w)
	}
	return nil
}

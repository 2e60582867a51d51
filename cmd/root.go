// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/todo"
	"github.com/nibzard/todolist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Process streams and clock. Tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
	now              = time.Now
)

// WarningError is returned after a user-facing warning has been printed.
// The caller should exit non-zero without printing it again.
type WarningError struct {
	Err error
}

func (e *WarningError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *WarningError) Unwrap() error { return e.Err }

// warn prints msg as a warning and returns a WarningError wrapping err.
func warn(err error, msg string) error {
	fmt.Fprintf(stderr, "Warning: %s\n", msg)
	return &WarningError{Err: err}
}

// env carries the resolved configuration into a command.
type env struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
}

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	cfg := cws.Config
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	for _, w := range cws.Warnings {
		logger.Warn("config", "warning", w)
	}
	e := &env{cfg: cfg, sources: cws, logger: logger}

	// With no subcommand, open the TUI on a terminal and list otherwise.
	subcommand := "ls"
	if ui.IsTTY(stdout) {
		subcommand = "tui"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return addCommand(e, remainingArgs)
	case "ls", "list":
		return lsCommand(e, remainingArgs)
	case "search":
		return searchCommand(e, remainingArgs)
	case "done", "complete":
		return completeCommand(e, remainingArgs, true)
	case "undo":
		return completeCommand(e, remainingArgs, false)
	case "edit":
		return editCommand(e, remainingArgs)
	case "rm", "remove":
		return removeCommand(e, remainingArgs)
	case "clear":
		return clearCommand(e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "check":
		return checkCommand(e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the CLI logger. Logs go to stderr unless a log file is
// configured.
func newLogger(cfg *config.Config) (*log.Logger, func(), error) {
	var w io.Writer = stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	logger := logging.NewFromConfig(w, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	return logger, closeFn, nil
}

// openStore opens the configured task file.
func (e *env) openStore(logger *log.Logger) (*todo.Store, error) {
	format, err := todo.ParseFormat(e.cfg.Format)
	if err != nil {
		return nil, err
	}
	store, err := todo.Open(e.cfg.TasksFile,
		todo.WithFormat(format),
		todo.WithStrict(e.cfg.Strict),
		todo.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("opening task file: %w", err)
	}
	if report := store.Report(); len(report.Skipped) > 0 {
		logger.Info("skipped malformed records", "path", store.Path(), "count", len(report.Skipped))
	}
	return store, nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todolist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Todolist - a flat-file task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [global options] [command] [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add -p <priority> -d <DD-MM-YYYY> <text>   Add a task")
	fmt.Fprintln(w, "  ls [-completed|-pending] [-search kw]      List tasks")
	fmt.Fprintln(w, "  search <keyword>                           List tasks whose text contains keyword")
	fmt.Fprintln(w, "  done <id>                                  Mark a task completed")
	fmt.Fprintln(w, "  undo <id>                                  Mark a task pending")
	fmt.Fprintln(w, "  edit [-t text] [-p priority] [-d date] <id>  Edit a task")
	fmt.Fprintln(w, "  rm [-y] <id>                               Remove a task")
	fmt.Fprintln(w, "  clear [-y]                                 Remove all tasks")
	fmt.Fprintln(w, "  tui                                        Launch the terminal UI (default on a TTY)")
	fmt.Fprintln(w, "  check [file]                               Validate every record in the task file")
	fmt.Fprintln(w, "  config [-example]                          Show the effective configuration")
	fmt.Fprintln(w, "  version                                    Show version information")
	fmt.Fprintln(w, "  help                                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Priorities: High, Medium, Low. Due dates use DD-MM-YYYY and must not be in the past.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	for _, name := range []string{
		config.EnvTasksFile, config.EnvFormat, config.EnvStrict, config.EnvTheme,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvLogTimestamps, config.EnvLogCaller,
		config.EnvLogFile,
	} {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

package cmd

import (
	"fmt"

	"github.com/nibzard/todolist-go/internal/todo"
)

// checkCommand validates every record of the task file without changing it.
func checkCommand(e *env, args []string) error {
	fs := newFlagSet("check")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	path := e.cfg.TasksFile
	if len(remaining) == 1 {
		path = remaining[0]
	}
	format, err := todo.ParseFormat(e.cfg.Format)
	if err != nil {
		return err
	}
	format = todo.DetectFormat(path, format)

	result, err := todo.Check(path, format)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Task file: %s\n", path)
	fmt.Fprintf(stdout, "  Format: %s", format)
	if result.UsedSchema {
		fmt.Fprint(stdout, " (JSON Schema validated)")
	}
	fmt.Fprintln(stdout)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if result.Valid {
		fmt.Fprintf(stdout, "  ✅ Valid (%d records)\n", result.Checked)
	} else {
		fmt.Fprintln(stdout, "  ❌ Validation failed:")
		for _, err := range result.Errors {
			fmt.Fprintf(stdout, "     - %v\n", err)
		}
	}

	if *verbose && result.Valid && result.Checked > 0 {
		store, err := todo.Open(path, todo.WithFormat(format), todo.WithLogger(e.logger))
		if err != nil {
			return err
		}
		for _, t := range store.Tasks() {
			fmt.Fprintf(stdout, "    ")
			printTask(stdout, t)
		}
	}

	if !result.Valid {
		return fmt.Errorf("task file has %d invalid records", len(result.Errors))
	}
	return nil
}

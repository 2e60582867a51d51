package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/todolist-go/internal/todo"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todolist "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseInterspersed parses flags that may appear before, between or after
// positional arguments. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// parseID parses a task ID argument. A leading '#' is accepted.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id <= 0 {
		return 0, warn(fmt.Errorf("invalid task id %q", s), fmt.Sprintf("Invalid task ID: %s", s))
	}
	return id, nil
}

// singleID parses exactly one positional ID.
func singleID(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly one task id", command)
	}
	return parseID(args[0])
}

func taskNotFound(id int, err error) error {
	return warn(err, fmt.Sprintf("No task with ID %d.", id))
}

// confirm asks a yes/no question on stdin. Anything but y or yes is no.
func confirm(question string) bool {
	fmt.Fprintf(stdout, "%s [y/N] ", question)
	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
		fmt.Fprintln(stdout)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// addCommand validates input and appends a task.
func addCommand(e *env, args []string) error {
	fs := newFlagSet("add")
	priority := fs.String("p", "", "Priority (High, Medium, Low)")
	fs.StringVar(priority, "priority", "", "Priority (High, Medium, Low)")
	due := fs.String("d", "", "Due date (DD-MM-YYYY)")
	fs.StringVar(due, "due", "", "Due date (DD-MM-YYYY)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	in, err := todo.ValidateInput(strings.Join(positional, " "), *priority, *due, now())
	if err != nil {
		return warn(err, todo.UserMessage(err))
	}

	store, err := e.openStore(e.logger)
	if err != nil {
		return err
	}
	task, err := store.Add(in.Text, in.Priority, in.DueDate)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Task added successfully.")
	printTask(stdout, task)
	return nil
}

// lsCommand lists tasks, optionally filtered by completion or keyword.
func lsCommand(e *env, args []string) error {
	fs := newFlagSet("ls")
	completed := fs.Bool("completed", false, "Show only completed tasks")
	pending := fs.Bool("pending", false, "Show only pending tasks")
	search := fs.String("search", "", "Show only tasks whose text contains keyword")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}
	if *completed && *pending {
		return fmt.Errorf("-completed and -pending are mutually exclusive")
	}
	return listTasks(e, strings.TrimSpace(*search), *completed, *pending)
}

// searchCommand is shorthand for ls -search.
func searchCommand(e *env, args []string) error {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		return fmt.Errorf("search requires a keyword")
	}
	return listTasks(e, keyword, false, false)
}

func listTasks(e *env, keyword string, completed, pending bool) error {
	store, err := e.openStore(e.logger)
	if err != nil {
		return err
	}

	tasks := store.Tasks()
	var header string
	switch {
	case keyword != "":
		tasks = store.Search(keyword)
		header = "Showing search results for: " + keyword
	case completed:
		tasks = store.Filter(true)
		header = "Showing completed tasks."
	case pending:
		tasks = store.Filter(false)
		header = "Showing pending tasks."
	}
	if keyword != "" && (completed || pending) {
		tasks = filterCompleted(tasks, completed)
	}

	if header != "" {
		fmt.Fprintln(stdout, header)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "No tasks.")
	}
	for _, t := range tasks {
		printTask(stdout, t)
	}
	fmt.Fprintf(stdout, "Total tasks: %d\n", store.Len())
	return nil
}

func filterCompleted(tasks []todo.Task, completed bool) []todo.Task {
	out := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// printTask prints one row as "#ID [✓] text | priority | Due: date".
func printTask(w io.Writer, t todo.Task) {
	fmt.Fprintf(w, "#%d %s\n", t.ID, t)
}

// completeCommand marks a task completed or pending.
func completeCommand(e *env, args []string, completed bool) error {
	name := "done"
	if !completed {
		name = "undo"
	}
	fs := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(name, fs.Args())
	if err != nil {
		return err
	}

	store, err := e.openStore(e.logger)
	if err != nil {
		return err
	}
	if err := store.SetCompletedID(id, completed); err != nil {
		if errors.Is(err, todo.ErrTaskNotFound) {
			return taskNotFound(id, err)
		}
		return err
	}
	if completed {
		fmt.Fprintln(stdout, "Task marked as completed.")
	} else {
		fmt.Fprintln(stdout, "Task marked as pending.")
	}
	task, _ := store.Get(id)
	printTask(stdout, task)
	return nil
}

// editCommand replaces the fields given by flags and keeps the rest.
func editCommand(e *env, args []string) error {
	fs := newFlagSet("edit")
	text := fs.String("t", "", "New task text")
	fs.StringVar(text, "text", "", "New task text")
	priority := fs.String("p", "", "New priority (High, Medium, Low)")
	fs.StringVar(priority, "priority", "", "New priority (High, Medium, Low)")
	due := fs.String("d", "", "New due date (DD-MM-YYYY)")
	fs.StringVar(due, "due", "", "New due date (DD-MM-YYYY)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	id, err := singleID("edit", positional)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return fmt.Errorf("edit requires at least one of -t, -p or -d")
	}

	store, err := e.openStore(e.logger)
	if err != nil {
		return err
	}
	current, ok := store.Get(id)
	if !ok {
		return taskNotFound(id, todo.ErrTaskNotFound)
	}

	newText, newPriority, newDue := current.Text, string(current.Priority), current.DueDate
	if set["t"] || set["text"] {
		newText = *text
	}
	if set["p"] || set["priority"] {
		newPriority = *priority
	}
	if set["d"] || set["due"] {
		newDue = *due
	}

	in, err := todo.ValidateInput(newText, newPriority, newDue, now())
	if err != nil {
		return warn(err, todo.UserMessage(err))
	}
	if err := store.EditID(id, in.Text, in.Priority, in.DueDate); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Task edited successfully.")
	task, _ := store.Get(id)
	printTask(stdout, task)
	return nil
}

// removeCommand deletes one task after confirmation.
func removeCommand(e *env, args []string) error {
	fs := newFlagSet("rm")
	yes := fs.Bool("y", false, "Do not ask for confirmation")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	id, err := singleID("rm", positional)
	if err != nil {
		return err
	}

	store, err := e.openStore(e.logger)
	if err != nil {
		return err
	}
	task, ok := store.Get(id)
	if !ok {
		return taskNotFound(id, todo.ErrTaskNotFound)
	}
	printTask(stdout, task)
	if !*yes && !confirm("Are you sure you want to remove this task?") {
		fmt.Fprintln(stdout, "Cancelled.")
		return nil
	}
	if err := store.RemoveID(id); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Task removed successfully.")
	return nil
}

// clearCommand deletes every task after confirmation.
func clearCommand(e *env, args []string) error {
	fs := newFlagSet("clear")
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, err := e.openStore(e.logger)
	if err != nil {
		return err
	}
	if !*yes && !confirm("Are you sure you want to clear all tasks?") {
		fmt.Fprintln(stdout, "Cancelled.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "All tasks cleared.")
	return nil
}

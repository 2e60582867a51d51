// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/todo"
)

type cliEnv struct {
	out  *bytes.Buffer
	err  *bytes.Buffer
	work string
}

// setupCLI isolates the CLI from the real environment: a fresh HOME and
// working directory, captured output and a fixed clock.
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{
		config.EnvTasksFile, config.EnvFormat, config.EnvStrict, config.EnvTheme,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvLogTimestamps,
		config.EnvLogCaller, config.EnvLogFile,
	} {
		t.Setenv(name, "")
	}
	t.Chdir(work)

	c := &cliEnv{out: &bytes.Buffer{}, err: &bytes.Buffer{}, work: work}
	oldOut, oldErr, oldIn, oldNow := stdout, stderr, stdin, now
	stdout, stderr, stdin = c.out, c.err, strings.NewReader("")
	now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local) }
	t.Cleanup(func() {
		stdout, stderr, stdin, now = oldOut, oldErr, oldIn, oldNow
	})
	return c
}

func (c *cliEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	c.out.Reset()
	c.err.Reset()
	return Run(context.Background(), args)
}

func (c *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	if err := c.run(t, args...); err != nil {
		t.Fatalf("Run(%v) error = %v\nstderr: %s", args, err, c.err.String())
	}
	return c.out.String()
}

func (c *cliEnv) tasksFile() string {
	return filepath.Join(c.work, "tasks.txt")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with -help flag", func(t *testing.T) {
		c := setupCLI(t)
		out := c.mustRun(t, "-help")
		if !strings.Contains(out, "Commands:") {
			t.Errorf("expected usage, got %q", out)
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		c := setupCLI(t)
		if err := c.run(t, "-h"); err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		c := setupCLI(t)
		for _, args := range [][]string{{"-version"}, {"-v"}, {"version"}} {
			out := c.mustRun(t, args...)
			if !strings.Contains(out, "todolist version "+Version) {
				t.Errorf("Run(%v): got %q", args, out)
			}
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		c := setupCLI(t)
		out := c.mustRun(t, "help")
		if !strings.Contains(out, "Global Options:") || !strings.Contains(out, "-file") {
			t.Errorf("help should list global flags, got %q", out)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		c := setupCLI(t)
		err := c.run(t, "unknown-command")
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("no command lists tasks when not on a terminal", func(t *testing.T) {
		c := setupCLI(t)
		out := c.mustRun(t)
		if !strings.Contains(out, "No tasks.") || !strings.Contains(out, "Total tasks: 0") {
			t.Errorf("expected empty listing, got %q", out)
		}
	})

	t.Run("invalid config value is an error", func(t *testing.T) {
		c := setupCLI(t)
		if err := c.run(t, "-theme", "neon", "ls"); err == nil {
			t.Error("expected error for invalid theme")
		}
	})
}

func TestAddAndList(t *testing.T) {
	c := setupCLI(t)

	out := c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "Write", "report")
	if !strings.Contains(out, "Task added successfully.") {
		t.Errorf("add output: %q", out)
	}
	c.mustRun(t, "add", "Buy milk", "-p", "Low", "-d", "01-01-2099")

	if got, want := readFile(t, c.tasksFile()),
		"Write report | False | High | 31-12-2099\nBuy milk | False | Low | 01-01-2099\n"; got != want {
		t.Errorf("file contents:\ngot  %q\nwant %q", got, want)
	}

	out = c.mustRun(t, "ls")
	for _, want := range []string{
		"#1 [✗] Write report | High | Due: 31-12-2099",
		"#2 [✗] Buy milk | Low | Due: 01-01-2099",
		"Total tasks: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output missing %q:\n%s", want, out)
		}
	}
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"past date", []string{"add", "-p", "High", "-d", "13-10-2026", "Late"}, "Due date must be in DD-MM-YYYY format and not in the past."},
		{"bad date", []string{"add", "-p", "High", "-d", "2099-12-31", "Wrong"}, "Due date must be in DD-MM-YYYY format and not in the past."},
		{"bad priority", []string{"add", "-p", "Urgent", "-d", "31-12-2099", "Task"}, "You must enter a valid task, priority (High, Medium, Low), and due date."},
		{"empty text", []string{"add", "-p", "High", "-d", "31-12-2099"}, "You must enter a valid task, priority (High, Medium, Low), and due date."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := setupCLI(t)
			err := c.run(t, tt.args...)
			var warning *WarningError
			if !errors.As(err, &warning) {
				t.Fatalf("expected WarningError, got %v", err)
			}
			if got := c.err.String(); got != "Warning: "+tt.want+"\n" {
				t.Errorf("stderr: got %q, want %q", got, "Warning: "+tt.want+"\n")
			}
			if _, err := os.Stat(c.tasksFile()); !os.IsNotExist(err) {
				t.Error("a rejected add must not create the task file")
			}
		})
	}
}

func TestAddDueToday(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "Medium", "-d", "14-10-2026", "Today")
	if !strings.Contains(readFile(t, c.tasksFile()), "Today | False | Medium | 14-10-2026") {
		t.Error("a task due today should be saved")
	}
}

func TestDoneAndUndo(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "Write report")
	c.mustRun(t, "add", "-p", "Low", "-d", "01-01-2099", "Buy milk")

	out := c.mustRun(t, "done", "2")
	if !strings.Contains(out, "#2 [✓] Buy milk") {
		t.Errorf("done output: %q", out)
	}
	if !strings.Contains(readFile(t, c.tasksFile()), "Buy milk | True | Low | 01-01-2099") {
		t.Error("completion should be persisted")
	}

	c.mustRun(t, "undo", "#2")
	if !strings.Contains(readFile(t, c.tasksFile()), "Buy milk | False | Low | 01-01-2099") {
		t.Error("undo should be persisted")
	}
}

func TestUnknownAndInvalidIDs(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "Only")
	before := readFile(t, c.tasksFile())

	for _, args := range [][]string{{"done", "9"}, {"undo", "9"}, {"edit", "-t", "x", "9"}, {"rm", "-y", "9"}} {
		err := c.run(t, args...)
		if !errors.Is(err, todo.ErrTaskNotFound) {
			t.Errorf("Run(%v): expected ErrTaskNotFound, got %v", args, err)
		}
		if got := c.err.String(); got != "Warning: No task with ID 9.\n" {
			t.Errorf("Run(%v) stderr: got %q", args, got)
		}
	}

	err := c.run(t, "done", "abc")
	var warning *WarningError
	if !errors.As(err, &warning) || !strings.Contains(c.err.String(), "Invalid task ID: abc") {
		t.Errorf("invalid id: err %v stderr %q", err, c.err.String())
	}
	if err := c.run(t, "done"); err == nil {
		t.Error("done without an id should fail")
	}

	if after := readFile(t, c.tasksFile()); after != before {
		t.Errorf("failed commands must not change the file:\n%s", after)
	}
}

func TestListFilters(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "Low", "-d", "01-01-2099", "Buy milk")
	c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "Write report")
	c.mustRun(t, "add", "-p", "Medium", "-d", "15-06-2099", "Pay bills")
	c.mustRun(t, "done", "3")

	out := c.mustRun(t, "ls", "-completed")
	if !strings.Contains(out, "Showing completed tasks.") || !strings.Contains(out, "Pay bills") || strings.Contains(out, "Buy milk") {
		t.Errorf("ls -completed:\n%s", out)
	}
	if !strings.Contains(out, "Total tasks: 3") {
		t.Errorf("footer should count every task:\n%s", out)
	}

	out = c.mustRun(t, "ls", "-pending")
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "Write report") || strings.Contains(out, "Pay bills") {
		t.Errorf("ls -pending:\n%s", out)
	}

	out = c.mustRun(t, "ls", "-search", "Y")
	if !strings.Contains(out, "Showing search results for: Y") || !strings.Contains(out, "Buy milk") ||
		!strings.Contains(out, "Pay bills") || strings.Contains(out, "Write report") {
		t.Errorf("ls -search:\n%s", out)
	}

	out = c.mustRun(t, "ls", "-search", "y", "-pending")
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Pay bills") {
		t.Errorf("ls -search -pending:\n%s", out)
	}

	out = c.mustRun(t, "search", "REPORT")
	if !strings.Contains(out, "#2 [✗] Write report") || strings.Contains(out, "Buy milk") {
		t.Errorf("search:\n%s", out)
	}

	out = c.mustRun(t, "search", "zzz")
	if !strings.Contains(out, "No tasks.") {
		t.Errorf("search without matches:\n%s", out)
	}

	if err := c.run(t, "ls", "-completed", "-pending"); err == nil {
		t.Error("-completed with -pending should fail")
	}
	if err := c.run(t, "search"); err == nil {
		t.Error("search without a keyword should fail")
	}
}

func TestEdit(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "Write report")

	c.mustRun(t, "edit", "-p", "Low", "1")
	if got := readFile(t, c.tasksFile()); got != "Write report | False | Low | 31-12-2099\n" {
		t.Errorf("edit -p: got %q", got)
	}

	c.mustRun(t, "edit", "1", "-t", "Write final report", "-d", "01-01-2100")
	if got := readFile(t, c.tasksFile()); got != "Write final report | False | Low | 01-01-2100\n" {
		t.Errorf("edit -t -d: got %q", got)
	}

	err := c.run(t, "edit", "-d", "01-01-2000", "1")
	var warning *WarningError
	if !errors.As(err, &warning) {
		t.Errorf("past date edit: expected WarningError, got %v", err)
	}
	if err := c.run(t, "edit", "1"); err == nil {
		t.Error("edit without fields should fail")
	}
}

func TestRemove(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "First")
	c.mustRun(t, "add", "-p", "Low", "-d", "31-12-2099", "Second")

	stdin = strings.NewReader("n\n")
	out := c.mustRun(t, "rm", "1")
	if !strings.Contains(out, "Are you sure you want to remove this task? [y/N]") || !strings.Contains(out, "Cancelled.") {
		t.Errorf("declined rm output: %q", out)
	}
	if !strings.Contains(readFile(t, c.tasksFile()), "First") {
		t.Fatal("declined removal must keep the task")
	}

	stdin = strings.NewReader("y\n")
	out = c.mustRun(t, "rm", "1")
	if !strings.Contains(out, "Task removed successfully.") {
		t.Errorf("rm output: %q", out)
	}
	if got := readFile(t, c.tasksFile()); got != "Second | False | Low | 31-12-2099\n" {
		t.Errorf("after rm: got %q", got)
	}

	c.mustRun(t, "rm", "-y", "1")
	if got := readFile(t, c.tasksFile()); got != "" {
		t.Errorf("after rm -y: got %q", got)
	}
}

func TestClear(t *testing.T) {
	c := setupCLI(t)
	c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "First")
	c.mustRun(t, "add", "-p", "Low", "-d", "31-12-2099", "Second")

	// Empty stdin means no.
	out := c.mustRun(t, "clear")
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("clear without confirmation: %q", out)
	}

	out = c.mustRun(t, "clear", "-y")
	if !strings.Contains(out, "All tasks cleared.") {
		t.Errorf("clear -y: %q", out)
	}
	if got := readFile(t, c.tasksFile()); got != "" {
		t.Errorf("after clear: got %q", got)
	}
}

func TestCheck(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		c := setupCLI(t)
		out := c.mustRun(t, "check")
		if !strings.Contains(out, "task file not found") || !strings.Contains(out, "✅ Valid (0 records)") {
			t.Errorf("check output:\n%s", out)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		c := setupCLI(t)
		c.mustRun(t, "add", "-p", "High", "-d", "31-12-2099", "First")
		out := c.mustRun(t, "check", "-v")
		if !strings.Contains(out, "✅ Valid (1 records)") || !strings.Contains(out, "#1 [✗] First") {
			t.Errorf("check output:\n%s", out)
		}
	})

	t.Run("invalid records", func(t *testing.T) {
		c := setupCLI(t)
		content := "Good | False | High | 31-12-2099\n" +
			"Bad priority | False | Urgent | 31-12-2099\n" +
			"no separators here\n"
		if err := os.WriteFile(c.tasksFile(), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		err := c.run(t, "check")
		if err == nil || !strings.Contains(err.Error(), "2 invalid records") {
			t.Fatalf("expected 2 invalid records, got %v", err)
		}
		out := c.out.String()
		if !strings.Contains(out, "line 3") || !strings.Contains(out, "Bad priority") {
			t.Errorf("check output:\n%s", out)
		}
		if got := readFile(t, c.tasksFile()); got != content {
			t.Error("check must not modify the file")
		}
	})
}

func TestJSONFormat(t *testing.T) {
	c := setupCLI(t)
	path := filepath.Join(c.work, "tasks.json")

	c.mustRun(t, "-file", path, "add", "-p", "High", "-d", "31-12-2099", "Write report")
	data := readFile(t, path)
	if !strings.Contains(data, `"schema_version": 1`) || !strings.Contains(data, `"text": "Write report"`) {
		t.Errorf("json file:\n%s", data)
	}

	out := c.mustRun(t, "-file", path, "check")
	if !strings.Contains(out, "JSON Schema validated") {
		t.Errorf("check should report schema validation:\n%s", out)
	}
}

func TestStrictIsolatesBadRecords(t *testing.T) {
	c := setupCLI(t)
	content := "Good | False | High | 31-12-2099\n" +
		"Bad | False | Urgent | 31-12-2099\n"
	if err := os.WriteFile(c.tasksFile(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out := c.mustRun(t, "-strict", "ls")
	if strings.Contains(out, "Bad") || !strings.Contains(out, "Total tasks: 1") {
		t.Errorf("strict ls:\n%s", out)
	}
	rejected := readFile(t, c.tasksFile()+todo.RejectedSuffix)
	if rejected != "Bad | False | Urgent | 31-12-2099\n" {
		t.Errorf("rejected file: got %q", rejected)
	}
}

func TestConfigCommand(t *testing.T) {
	c := setupCLI(t)
	if err := os.WriteFile(filepath.Join(c.work, "todolist.toml"), []byte("theme = \"light\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := c.mustRun(t, "-strict", "config")
	for _, want := range []string{"todolist.toml", `"light"`, "# project file", "# flag", "# default"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	out = c.mustRun(t, "config", "-example")
	if out != config.ExampleConfig() {
		t.Error("config -example should print the example config")
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		p    string
	}{
		{"flags first", []string{"-p", "High", "Buy", "milk"}, []string{"Buy", "milk"}, "High"},
		{"flags last", []string{"Buy", "milk", "-p", "Low"}, []string{"Buy", "milk"}, "Low"},
		{"flags between", []string{"Buy", "-p", "Medium", "milk"}, []string{"Buy", "milk"}, "Medium"},
		{"double dash", []string{"-p", "Low", "--", "-p", "literal"}, []string{"-p", "literal"}, "Low"},
		{"no args", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			p := fs.String("p", "", "")
			got, err := parseInterspersed(fs, tt.args)
			if err != nil {
				t.Fatalf("parseInterspersed error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("positional: got %v, want %v", got, tt.want)
			}
			if *p != tt.p {
				t.Errorf("-p: got %q, want %q", *p, tt.p)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	setupCLI(t)
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"#12", 12, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"x", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

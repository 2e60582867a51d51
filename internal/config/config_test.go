// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears every TODOLIST_* variable for the duration of the test.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, env := range []string{
		EnvTasksFile, EnvFormat, EnvStrict, EnvTheme, EnvLogLevel,
		EnvLogFormat, EnvLogTimestamps, EnvLogCaller, EnvLogFile,
	} {
		t.Setenv(env, "")
	}
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TasksFile != DefaultTasksFile {
		t.Errorf("TasksFile: got %q, want %q", cfg.TasksFile, DefaultTasksFile)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want dark", cfg.Theme)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if cfg.Strict {
		t.Error("Strict: got true, want false")
	}
}

func TestLoadDefaults(t *testing.T) {
	_, work := isolate(t)

	cws, err := LoadWithSources(nil, nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	wantFile := filepath.Join(work, DefaultTasksFile)
	if got := cws.Config.TasksFile; !samePath(got, wantFile) {
		t.Errorf("TasksFile: got %q, want %q", got, wantFile)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want %q", field, cws.Sources[field], SourceDefault)
		}
	}
	if cws.ConfigFile() != "" {
		t.Errorf("ConfigFile: got %q, want empty", cws.ConfigFile())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvTasksFile, "custom.json")
	t.Setenv(EnvStrict, "yes")
	t.Setenv(EnvTheme, "light")
	t.Setenv(EnvLogLevel, "")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.TasksFile != "custom.json" {
		t.Errorf("TasksFile: got %q, want custom.json", cfg.TasksFile)
	}
	if !cfg.Strict {
		t.Error("Strict: got false, want true")
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme: got %q, want light", cfg.Theme)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: empty env should keep default, got %q", cfg.LogLevel)
	}
	if sources["theme"] != SourceEnv {
		t.Errorf("source of theme: got %q, want %q", sources["theme"], SourceEnv)
	}
	if _, ok := sources["log_level"]; ok {
		t.Error("log_level should not be attributed to the environment")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todolist.toml")
	writeFile(t, configFile, `tasks_file = "custom.json"
strict = true
colour = "blue"
`)

	cws := &ConfigWithSources{Config: &Config{}, Sources: map[string]ConfigSource{}}
	setDefaults(cws.Config)
	if err := cws.loadConfigFile(configFile, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cws.Config.TasksFile != "custom.json" {
		t.Errorf("TasksFile: got %q, want custom.json", cws.Config.TasksFile)
	}
	if !cws.Config.Strict {
		t.Error("Strict: got false, want true")
	}
	if cws.Config.Theme != DefaultTheme {
		t.Errorf("Theme: got %q, want %q", cws.Config.Theme, DefaultTheme)
	}
	if cws.Sources["tasks_file"] != SourceProjFile {
		t.Errorf("source of tasks_file: got %q", cws.Sources["tasks_file"])
	}
	if _, ok := cws.Sources["theme"]; ok {
		t.Error("theme is not in the file and should not be attributed to it")
	}
	if len(cws.Warnings) != 1 || !strings.Contains(cws.Warnings[0], "colour") {
		t.Errorf("Warnings: got %v, want one unknown key warning", cws.Warnings)
	}
}

func TestLoadConfigFileInvalidTOML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todolist.toml")
	writeFile(t, configFile, "tasks_file = \n")

	cws := &ConfigWithSources{Config: &Config{}, Sources: map[string]ConfigSource{}}
	if err := cws.loadConfigFile(configFile, SourceUserFile); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadPriority(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".todolist", "todolist.toml"), `theme = "light"
tasks_file = "user.txt"
log_level = "info"
`)
	writeFile(t, filepath.Join(work, "todolist.toml"), `tasks_file = "project.txt"
`)
	t.Setenv(EnvLogLevel, "debug")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-strict", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.Theme != "light" || cws.Sources["theme"] != SourceUserFile {
		t.Errorf("theme: got %q from %q, want light from user file", cfg.Theme, cws.Sources["theme"])
	}
	if !samePath(cfg.TasksFile, filepath.Join(work, "project.txt")) || cws.Sources["tasks_file"] != SourceProjFile {
		t.Errorf("tasks_file: got %q from %q", cfg.TasksFile, cws.Sources["tasks_file"])
	}
	if cfg.LogLevel != "debug" || cws.Sources["log_level"] != SourceEnv {
		t.Errorf("log_level: got %q from %q", cfg.LogLevel, cws.Sources["log_level"])
	}
	if !cfg.Strict || cws.Sources["strict"] != SourceFlag {
		t.Errorf("strict: got %v from %q", cfg.Strict, cws.Sources["strict"])
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "ls" {
		t.Errorf("remaining args: got %v, want [ls]", got)
	}
	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want user and project file", cws.Files)
	}
	if cws.ConfigFile() != "todolist.toml" {
		t.Errorf("ConfigFile: got %q, want todolist.toml", cws.ConfigFile())
	}
}

func TestLoadHiddenProjectFile(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".todolist.toml"), `format = "json"
`)

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format: got %q, want json", cfg.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"theme", []string{"-theme", "purple"}},
		{"log level", []string{"-log-level", "loud"}},
		{"log format", []string{"-log-format", "xml"}},
		{"format", []string{"-format", "yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), tt.args); err == nil {
				t.Errorf("Load(%v): expected error", tt.args)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TODOLIST_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TODOLIST_TEST_DIR/tasks.txt", "/data/tasks.txt"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	if got, want := resolvePath("tasks.txt", "/work"), filepath.Join("/work", "tasks.txt"); got != want {
		t.Errorf("resolvePath: got %q, want %q", got, want)
	}
	if got := resolvePath("/abs/tasks.txt", "/work"); got != "/abs/tasks.txt" {
		t.Errorf("resolvePath: got %q, want /abs/tasks.txt", got)
	}
	if got := resolvePath("", "/work"); got != "" {
		t.Errorf("resolvePath: got %q, want empty", got)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"-file", "flag.txt",
		"-theme", "light",
		"-log-timestamps",
		"add", "-p", "High",
	}

	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.TasksFile != "flag.txt" {
		t.Errorf("TasksFile: got %q, want flag.txt", cfg.TasksFile)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme: got %q, want light", cfg.Theme)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if sources["log_timestamps"] != SourceFlag {
		t.Errorf("source of log_timestamps: got %q", sources["log_timestamps"])
	}
	if _, ok := sources["strict"]; ok {
		t.Error("strict was not set and should not be attributed to a flag")
	}
	if got := fs.Args(); len(got) != 3 || got[0] != "add" {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" yes ", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := boolFromString(tt.in); got != tt.want {
			t.Errorf("boolFromString(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("ExampleConfig does not decode: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		t.Errorf("ExampleConfig has unknown keys: %v", undecoded)
	}
	if cfg.TasksFile != DefaultTasksFile || cfg.Theme != DefaultTheme {
		t.Errorf("ExampleConfig should mirror defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("ExampleConfig does not validate: %v", err)
	}
}

// samePath compares paths after resolving symlinks, since temp dirs may sit
// behind one (macOS /var -> /private/var).
func samePath(a, b string) bool {
	ra, errA := filepath.EvalSymlinks(filepath.Dir(a))
	rb, errB := filepath.EvalSymlinks(filepath.Dir(b))
	if errA != nil || errB != nil {
		return a == b
	}
	return filepath.Join(ra, filepath.Base(a)) == filepath.Join(rb, filepath.Base(b))
}

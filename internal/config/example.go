package config

// ExampleConfig returns an example configuration file.
func ExampleConfig() string {
	return `# Todolist configuration
# Place this file at ./todolist.toml (project) or ~/.todolist/todolist.toml (user).

# Path to the task file. Relative paths resolve against the working directory.
tasks_file = "tasks.txt"

# Persisted format: "lines" (text | True/False | priority | DD-MM-YYYY)
# or "json". Leave empty to pick json for files ending in .json.
format = ""

# Move records with an invalid priority or due date to <tasks_file>.rejected
# instead of loading them.
strict = false

# TUI theme: "dark" or "light".
theme = "dark"

# Logging
log_level = "warn"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
# log_file = "~/.todolist/todolist.log"
`
}

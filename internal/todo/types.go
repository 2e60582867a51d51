package todo

import (
	"errors"
	"fmt"
	"strings"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the valid priorities, highest first.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Valid reports whether p is one of the three priority literals.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority accepts exactly High, Medium or Low, ignoring surrounding
// whitespace. Matching is case-sensitive.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.TrimSpace(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// DateLayout is the due date layout (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Task represents a single task in the list.
type Task struct {
	ID        int      `json:"-"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	DueDate   string   `json:"due_date"`
}

// Equal compares the persisted fields of two tasks. IDs are ignored.
func (t Task) Equal(other Task) bool {
	return t.Text == other.Text &&
		t.Completed == other.Completed &&
		t.Priority == other.Priority &&
		t.DueDate == other.DueDate
}

// StatusMark returns ✓ for completed tasks and ✗ otherwise.
func (t Task) StatusMark() string {
	if t.Completed {
		return "✓"
	}
	return "✗"
}

// String renders the task the way both shells list it.
func (t Task) String() string {
	return fmt.Sprintf("[%s] %s | %s | Due: %s", t.StatusMark(), t.Text, t.Priority, t.DueDate)
}

var (
	// ErrTaskNotFound is returned by ID-based operations for unknown IDs.
	ErrTaskNotFound = errors.New("task not found")

	ErrEmptyText       = errors.New("task text is empty")
	ErrInvalidPriority = errors.New("priority must be High, Medium or Low")
	ErrInvalidDueDate  = errors.New("due date must be in DD-MM-YYYY format")
	ErrPastDueDate     = errors.New("due date is in the past")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field or record location, e.g. "priority" or "line 3.due_date"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains the findings of Check.
type ValidationResult struct {
	Valid      bool
	Checked    int
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// SkippedRecord describes a record that was not loaded.
type SkippedRecord struct {
	Line   int // 1-based line number, or task position for JSON files
	Raw    string
	Reason string
}

// LoadReport summarizes the last load of a task file.
type LoadReport struct {
	Loaded  int
	Skipped []SkippedRecord
}

package todo

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Input is a validated (text, priority, due date) triple ready for Add or
// Edit.
type Input struct {
	Text     string
	Priority Priority
	DueDate  string
}

// ValidateInput checks user input before it reaches the store. Text must be
// non-empty after trimming; line breaks inside it are collapsed to single
// spaces because the line format holds one record per line. Priority must be
// one of the three literals and the due date must parse as DD-MM-YYYY and
// must not fall before the calendar date of now.
func ValidateInput(text, priority, dueDate string, now time.Time) (Input, error) {
	in := Input{Text: normalizeText(text)}
	if in.Text == "" {
		return Input{}, &ValidationError{Path: "text", Err: ErrEmptyText}
	}

	p, err := ParsePriority(priority)
	if err != nil {
		return Input{}, &ValidationError{Path: "priority", Err: ErrInvalidPriority}
	}
	in.Priority = p

	due := strings.TrimSpace(dueDate)
	if err := ValidateDueDate(due, now); err != nil {
		return Input{}, &ValidationError{Path: "due_date", Err: err}
	}
	in.DueDate = due

	return in, nil
}

// ValidateDueDate reports ErrInvalidDueDate for strings that do not parse
// as DD-MM-YYYY and ErrPastDueDate for dates before today. Today is valid.
func ValidateDueDate(due string, now time.Time) error {
	d, err := parseDueDate(due, now.Location())
	if err != nil {
		return err
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return ErrPastDueDate
	}
	return nil
}

func parseDueDate(due string, loc *time.Location) (time.Time, error) {
	if due == "" {
		return time.Time{}, ErrInvalidDueDate
	}
	d, err := time.ParseInLocation(DateLayout, due, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDueDate
	}
	return d, nil
}

func normalizeText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if l := strings.TrimSpace(line); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, " ")
}

// UserMessage turns a validation failure into the warning shown to users.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDueDate), errors.Is(err, ErrPastDueDate):
		return "Due date must be in DD-MM-YYYY format and not in the past."
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrInvalidPriority):
		return "You must enter a valid task, priority (High, Medium, Low), and due date."
	case errors.Is(err, ErrTaskNotFound):
		return "Select a task."
	case err == nil:
		return ""
	}
	return err.Error()
}

// validateRecord checks a loaded record without the past-date rule.
func validateRecord(t Task) error {
	if strings.TrimSpace(t.Text) == "" {
		return &ValidationError{Path: "text", Err: ErrEmptyText}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Path: "priority", Err: fmt.Errorf("%w, got %q", ErrInvalidPriority, t.Priority)}
	}
	if _, err := parseDueDate(t.DueDate, time.UTC); err != nil {
		return &ValidationError{Path: "due_date", Err: fmt.Errorf("%w, got %q", err, t.DueDate)}
	}
	return nil
}

// Check reads the task file at path and validates every record strictly,
// without modifying anything. A missing file is valid and empty.
func Check(path string, format Format) (*ValidationResult, error) {
	format = DetectFormat(path, format)
	result := &ValidationResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: format == FormatJSON,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("task file not found: %s", path))
			return result, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	tasks, skipped, err := codecFor(format).decode(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result, nil
	}

	for _, s := range skipped {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: recordPath(format, s.Line),
			Err:  errors.New(s.Reason),
		})
	}

	for i, t := range tasks {
		result.Checked++
		if err := validateRecord(t); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("task %d (%q)", i+1, t.Text),
				Err:  err,
			})
		}
	}
	result.Checked += len(skipped)

	return result, nil
}

func recordPath(format Format, n int) string {
	if format == FormatJSON {
		return fmt.Sprintf("tasks[%d]", n-1)
	}
	return fmt.Sprintf("line %d", n)
}

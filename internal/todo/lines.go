package todo

import (
	"strings"
)

// FieldSeparator separates the fields of a line-format record.
const FieldSeparator = " | "

const lineFields = 4

type lineCodec struct{}

func (lineCodec) decode(data []byte) ([]Task, []SkippedRecord, error) {
	var tasks []Task
	var skipped []SkippedRecord
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		t, ok := ParseLine(line)
		if !ok {
			skipped = append(skipped, SkippedRecord{
				Line:   i + 1,
				Raw:    line,
				Reason: "expected 4 fields separated by \" | \"",
			})
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, skipped, nil
}

func (lineCodec) encode(tasks []Task) ([]byte, error) {
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(FormatLine(t))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// ParseLine parses one trimmed line-format record. It reports false when the
// line does not split into exactly four fields. Field contents are not
// validated: any completed value other than "True" reads as false and the
// priority and due date are taken as written.
func ParseLine(line string) (Task, bool) {
	parts := splitRight(line, FieldSeparator, lineFields)
	if len(parts) != lineFields {
		return Task{}, false
	}
	return Task{
		Text:      parts[0],
		Completed: parts[1] == "True",
		Priority:  Priority(parts[2]),
		DueDate:   parts[3],
	}, true
}

// FormatLine renders a task as a line-format record without a newline.
func FormatLine(t Task) string {
	completed := "False"
	if t.Completed {
		completed = "True"
	}
	return strings.Join([]string{t.Text, completed, string(t.Priority), t.DueDate}, FieldSeparator)
}

// splitRight splits s on sep from the right into at most n parts, keeping
// any remaining separators in the first part.
func splitRight(s, sep string, n int) []string {
	parts := make([]string, 0, n)
	for len(parts) < n-1 {
		i := strings.LastIndex(s, sep)
		if i < 0 {
			break
		}
		parts = append(parts, s[i+len(sep):])
		s = s[:i]
	}
	parts = append(parts, s)

	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return parts
}
